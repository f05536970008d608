package services

import (
	"testing"
	"time"
)

func newTestJWTService() *JWTService {
	return &JWTService{
		AccessTokenDuration:  24 * time.Hour,
		RefreshTokenDuration: 30 * 24 * time.Hour,
		jwtSecretKey:         "test-secret",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, expiry, err := svc.GenerateAccessToken("user-1", "session-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if time.Until(expiry) < 23*time.Hour {
		t.Errorf("expiry %v is sooner than the access token lifetime", expiry)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "session-1" {
		t.Errorf("claims = %q/%q, want user-1/session-1", claims.UserID, claims.SessionID)
	}
	if claims.TokenType != "access" {
		t.Errorf("token type = %q, want access", claims.TokenType)
	}
}

func TestTokenTypeEnforcement(t *testing.T) {
	svc := newTestJWTService()

	access, _, err := svc.GenerateAccessToken("user-1", "session-1")
	if err != nil {
		t.Fatal(err)
	}
	refresh, _, err := svc.GenerateRefreshToken("user-1", "session-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
	if _, err := svc.VerifyAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := svc.VerifyRefreshToken(refresh); err != nil {
		t.Errorf("VerifyRefreshToken() error = %v", err)
	}
}

func TestVerifyRejectsTamperedAndForeignTokens(t *testing.T) {
	svc := newTestJWTService()

	token, _, err := svc.GenerateAccessToken("user-1", "session-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyAccessToken(token + "x"); err == nil {
		t.Error("tampered token verified")
	}

	other := &JWTService{
		AccessTokenDuration: 24 * time.Hour,
		jwtSecretKey:        "different-secret",
	}
	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("token signed with another secret verified")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestJWTService()
	svc.AccessTokenDuration = -time.Minute

	token, _, err := svc.GenerateAccessToken("user-1", "session-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expired token verified")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"bare token", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ExtractTokenFromHeader(tt.header)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ExtractTokenFromHeader(%q) = (%q, %v), want (%q, wantErr %v)",
					tt.header, got, err, tt.want, tt.wantErr)
			}
		})
	}
}
