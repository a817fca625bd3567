package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("segredo", 7, "ana@familia.com", "administrador", time.Hour)
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}

	claims, err := ParseAccessToken("segredo", token)
	if err != nil {
		t.Fatalf("validar token: %v", err)
	}
	if claims.IDMembro != 7 || claims.Email != "ana@familia.com" || claims.Tipo != "administrador" {
		t.Fatalf("claims inesperadas: %+v", claims)
	}
}

func TestAccessTokenSegredoErrado(t *testing.T) {
	token, err := GenerateAccessToken("segredo", 7, "ana@familia.com", "membro", time.Hour)
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}
	if _, err := ParseAccessToken("outro-segredo", token); err == nil {
		t.Fatal("token assinado com outro segredo deveria falhar")
	}
}

func TestAccessTokenExpirado(t *testing.T) {
	token, err := GenerateAccessToken("segredo", 7, "ana@familia.com", "membro", -time.Minute)
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}
	if _, err := ParseAccessToken("segredo", token); err == nil {
		t.Fatal("token expirado deveria falhar")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("senha123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "senha123") {
		t.Fatal("senha correta rejeitada")
	}
	if VerifyPassword(hash, "errada") {
		t.Fatal("senha errada aceita")
	}
}
