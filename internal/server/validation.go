package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxPseudoLength   = 32
	maxRoomCodeLength = 12
	maxEmailLength    = 254
	minPasswordLength = 8
	maxUploadFiles    = 3
	maxUploadBytes    = 10 << 20
)

func validatePseudo(pseudo string) (string, error) {
	trimmed := normalizeText(pseudo)
	if trimmed == "" {
		return "", errors.New("pseudo is required")
	}
	if len(trimmed) > maxPseudoLength {
		return "", fmt.Errorf("pseudo must be %d characters or fewer", maxPseudoLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("pseudo contains unsupported characters")
	}
	return trimmed, nil
}

func validateRoomCode(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return "", errors.New("room code is required")
	}
	if len(trimmed) > maxRoomCodeLength {
		return "", fmt.Errorf("room code must be %d characters or fewer", maxRoomCodeLength)
	}
	for _, r := range trimmed {
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		return "", errors.New("room code contains unsupported characters")
	}
	return trimmed, nil
}

func validateEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", errors.New("email is required")
	}
	if len(trimmed) > maxEmailLength {
		return "", fmt.Errorf("email must be %d characters or fewer", maxEmailLength)
	}
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return "", errors.New("email is invalid")
	}
	return trimmed, nil
}

func validatePassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

func validateVoteValue(value int) error {
	if value < 1 || value > 5 {
		return errors.New("vote value must be between 1 and 5")
	}
	return nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', '!', '?':
			continue
		default:
			return false
		}
	}
	return true
}
