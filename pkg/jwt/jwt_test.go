package jwt

import (
	"testing"
	"time"

	"course-scheduler/backend/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("PROF-1", RoleProfessor, "DEPT-CS", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "PROF-1" {
		t.Errorf("期望 UserID=PROF-1，实际=%s", claims.UserID)
	}
	if claims.Role != RoleProfessor {
		t.Errorf("期望 Role=professor，实际=%s", claims.Role)
	}
	if claims.DepartmentID != "DEPT-CS" {
		t.Errorf("期望 DepartmentID=DEPT-CS，实际=%s", claims.DepartmentID)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 TokenType=access，实际=%s", claims.TokenType)
	}
	if claims.Issuer != "course-scheduler" {
		t.Errorf("期望 Issuer=course-scheduler，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 14*time.Minute || ttl > 16*time.Minute {
		t.Errorf("默认 TTL 期望约15分钟，实际=%v", ttl)
	}
}

func TestGenerateAccessToken_CustomTTL(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("admin-1", RoleAdmin, "", 2*time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 119*time.Minute || ttl > 121*time.Minute {
		t.Errorf("自定义 TTL 期望约2小时，实际=%v", ttl)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("invalid.token.string"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "different-secret-key",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, _ := m1.GenerateAccessToken("admin-1", RoleAdmin, "", 0)
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("不同密钥签名的 token 不应通过验证")
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	m1 := newTestManager()
	m2 := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "other-system",
	})

	token, _ := m1.GenerateAccessToken("admin-1", RoleAdmin, "", 0)
	if _, err := m2.ParseToken(token); err == nil {
		t.Error("签发方不一致的 token 不应通过验证")
	}
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, _ := m.GenerateAccessToken("admin-1", RoleAdmin, "", 0)

	_, err := m.ParseToken(token)
	if err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestGenerateAccessToken_RejectsUnknownRole(t *testing.T) {
	m := newTestManager()

	if _, err := m.GenerateAccessToken("u-1", "leader", "", 0); err == nil {
		t.Error("期望未知角色签发失败")
	}
	if !ValidRole(RoleAdmin) || !ValidRole(RoleProfessor) || ValidRole("") {
		t.Error("ValidRole 结果不符")
	}
}
