package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("неожиданный формат хеша: %s", hash)
	}

	ok, err := VerifyPassword("secret123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("верный пароль должен проходить проверку")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("неверный пароль не должен проходить проверку")
	}
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("одинаковые пароли должны давать разные хеши из-за соли")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := VerifyPassword("secret123", "не хеш вовсе"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("ожидалась ErrInvalidHash, получено %v", err)
	}

	if _, err := VerifyPassword("secret123", "$argon2id$v=1$m=65536,t=1,p=4$c29sdA$aGFzaA"); !errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("ожидалась ErrIncompatibleVersion, получено %v", err)
	}
}

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken: %v", err)
	}
	second, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken: %v", err)
	}
	if first == second {
		t.Fatal("токены должны быть уникальными")
	}
}
