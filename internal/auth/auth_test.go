package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmallard/daybook/internal/apperr"
	"github.com/jmallard/daybook/internal/config"
	"github.com/jmallard/daybook/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestOAuthConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:3000"
	cfg.Google.ClientID = "client-id"
	cfg.Google.ClientSecret = "client-secret"

	conf := OAuthConfig(cfg)
	if conf.RedirectURL != "http://localhost:3000/auth/callback" {
		t.Errorf("redirect URL = %q", conf.RedirectURL)
	}
	if len(conf.Scopes) != 3 {
		t.Errorf("scopes = %v, want email, profile and calendar read", conf.Scopes)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	u := models.User{Email: "a@example.com", Name: "A"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	sess, err := OpenSession(db, u.ID, &oauth2.Token{AccessToken: "acc", RefreshToken: "ref"})
	if err != nil {
		t.Fatalf("OpenSession() error: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("session token should be set")
	}
	if sess.AccessToken != "acc" || sess.RefreshToken != "ref" {
		t.Error("session should carry the OAuth tokens")
	}

	user, got, err := SessionUser(db, sess.Token)
	if err != nil {
		t.Fatalf("SessionUser() error: %v", err)
	}
	if user.ID != u.ID || got.ID != sess.ID {
		t.Error("resolved session does not match")
	}

	if err := Logout(db, sess.Token); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, _, err := SessionUser(db, sess.Token); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("SessionUser() after logout error = %v, want ErrUnauthorized", err)
	}
}

func TestSessionUser_Rejections(t *testing.T) {
	db := openTestDB(t)
	u := models.User{Email: "a@example.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	expired := models.Session{
		Token:     "expired-token",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "unknown token", token: "nope"},
		{name: "expired token", token: "expired-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := SessionUser(db, tt.token); !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("SessionUser() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestLogout_UnknownTokenIsNoOp(t *testing.T) {
	db := openTestDB(t)
	if err := Logout(db, "never-issued"); err != nil {
		t.Errorf("Logout() error: %v", err)
	}
	if err := Logout(db, ""); err != nil {
		t.Errorf("Logout() empty token error: %v", err)
	}
}

func TestHandleCallback(t *testing.T) {
	db := openTestDB(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "acc",
			"refresh_token": "ref",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userinfo{
			Email:   "new@example.com",
			Name:    "New User",
			Picture: "http://example.com/p.png",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	orig := userinfoURL
	userinfoURL = srv.URL + "/userinfo"
	defer func() { userinfoURL = orig }()

	conf := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
	}

	sess, err := HandleCallback(context.Background(), db, conf, "the-code")
	if err != nil {
		t.Fatalf("HandleCallback() error: %v", err)
	}
	if sess.AccessToken != "acc" {
		t.Errorf("access token = %q, want acc", sess.AccessToken)
	}

	var user models.User
	if err := db.Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("user was not created: %v", err)
	}
	if user.Name != "New User" {
		t.Errorf("user name = %q", user.Name)
	}

	// A second sign-in reuses the account and refreshes the profile.
	sess2, err := HandleCallback(context.Background(), db, conf, "the-code")
	if err != nil {
		t.Fatalf("HandleCallback() second error: %v", err)
	}
	if sess2.UserID != sess.UserID {
		t.Error("second sign-in should reuse the existing user")
	}

	var users int64
	db.Model(&models.User{}).Count(&users)
	if users != 1 {
		t.Errorf("user rows = %d, want 1", users)
	}
}
