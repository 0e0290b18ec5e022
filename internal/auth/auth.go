// Package auth implements Google sign-in and cookie sessions.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/config"
	"github.com/jmallard/daybook/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// CookieName is the session cookie set on login.
const CookieName = "daybook_session"

// sessionTTL is how long a login stays valid.
const sessionTTL = 30 * 24 * time.Hour

// userinfoURL returns the signed-in user's profile. Overridable in tests.
var userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthConfig builds the Google OAuth client used for both sign-in and
// Calendar reads.
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Server.BaseURL + "/auth/callback",
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/calendar.readonly",
		},
	}
}

// userinfo is the subset of the Google profile response we store.
type userinfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// HandleCallback exchanges an authorization code, upserts the user and opens
// a new session. The OAuth tokens are kept on the session for Calendar reads.
func HandleCallback(ctx context.Context, db *gorm.DB, conf *oauth2.Config, code string) (*models.Session, error) {
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchange code: %w", err)
	}

	client := conf.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("auth: userinfo returned %d", resp.StatusCode)
	}
	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth: decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("auth: userinfo missing email")
	}

	user, err := upsertUser(db, info)
	if err != nil {
		return nil, err
	}
	return OpenSession(db, user.ID, token)
}

// upsertUser finds or creates the account for a Google profile.
func upsertUser(db *gorm.DB, info userinfo) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", info.Email).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{"name": info.Name, "image": info.Picture}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("auth: update user %d: %w", user.ID, err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: info.Email, Name: info.Name, Image: info.Picture}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("auth: create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("auth: find user %s: %w", info.Email, err)
	}
}

// OpenSession creates a session row with a fresh opaque token.
func OpenSession(db *gorm.DB, userID uint, token *oauth2.Token) (*models.Session, error) {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if token != nil {
		sess.AccessToken = token.AccessToken
		sess.RefreshToken = token.RefreshToken
	}
	if err := db.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("auth: create session: %w", err)
	}
	return &sess, nil
}

// SessionUser resolves a cookie token to its user. Missing, unknown or
// expired tokens yield apperr.ErrUnauthorized.
func SessionUser(db *gorm.DB, token string) (*models.User, *models.Session, error) {
	if token == "" {
		return nil, nil, apperr.ErrUnauthorized
	}
	var sess models.Session
	err := db.Preload("User").Where("token = ?", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("auth: find session: %w", err)
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, nil, apperr.ErrUnauthorized
	}
	return &sess.User, &sess, nil
}

// Logout deletes the session for a token. Unknown tokens are a no-op.
func Logout(db *gorm.DB, token string) error {
	if token == "" {
		return nil
	}
	if err := db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return nil
}
