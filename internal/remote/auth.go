package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/warung/internal/session"
)

// AuthClient signs in against a GoTrue-style email/password auth service.
type AuthClient struct {
	baseURL string
	anonKey string
	client  *http.Client

	accessToken string
}

func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type authError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// SignIn exchanges email/password for an access token and reads the
// identity out of the token claims. The token is not verified locally:
// verification is the backend's job, the terminal only displays identity.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (session.User, error) {
	var resp tokenResponse

	err := a.post(ctx, "/token?grant_type=password", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return session.User{}, err
	}

	if resp.AccessToken == "" {
		return session.User{}, fmt.Errorf("sign-in response carried no access token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err != nil {
		return session.User{}, fmt.Errorf("parsing access token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return session.User{}, fmt.Errorf("access token carries no subject")
	}

	user := session.User{ID: sub, Email: email}
	if e, ok := claims["email"].(string); ok && e != "" {
		user.Email = e
	}

	a.accessToken = resp.AccessToken

	return user, nil
}

// SignUp registers a new account. The account may require confirmation
// before it can sign in.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) error {
	return a.post(ctx, "/signup", credentials{Email: email, Password: password}, nil)
}

// SignOut revokes the current token, if any.
func (a *AuthClient) SignOut(ctx context.Context) error {
	if a.accessToken == "" {
		return nil
	}

	err := a.post(ctx, "/logout", nil, nil)
	a.accessToken = ""

	return err
}

func (a *AuthClient) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if a.anonKey != "" {
		req.Header.Set("apikey", a.anonKey)
	}

	if a.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.accessToken)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr authError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.ErrorDescription
			}

			if msg != "" {
				return fmt.Errorf("auth service: %s", msg)
			}
		}

		return fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
