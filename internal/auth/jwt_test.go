package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour, 7*24*time.Hour)

	pair, err := issuer.IssuePair("u1", "alice@test.io", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alice@test.io" || claims.Role != "student" {
		t.Fatalf("claims mangled: %+v", claims)
	}

	if _, err := issuer.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
}

func TestTokenTypeEnforced(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour, 7*24*time.Hour)
	pair, err := issuer.IssuePair("u1", "alice@test.io", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := issuer.VerifyRefresh(pair.AccessToken); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestTokenWrongKey(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour, 7*24*time.Hour)
	other := NewIssuer("different-secret", time.Hour, 7*24*time.Hour)

	pair, err := issuer.IssuePair("u1", "alice@test.io", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("token signed with another key accepted")
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewIssuer("secret", -time.Minute, -time.Minute)
	pair, err := issuer.IssuePair("u1", "alice@test.io", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expired access token accepted")
	}
	if _, err := issuer.VerifyRefresh(pair.RefreshToken); err == nil {
		t.Fatal("expired refresh token accepted")
	}
}

func TestTokenMalformed(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour, 7*24*time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.VerifyAccess(tok); err == nil {
			t.Fatalf("malformed token %q accepted", tok)
		}
	}
}
