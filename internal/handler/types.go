package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type signUpRequest struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
}

type signInRequest struct {
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	RememberMe *flexBool `json:"rememberme"`
}

type sendEmailRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type changePasswordRequest struct {
	VerificationCode flexCode `json:"verificationCode"`
	Password         string   `json:"password"`
	RepeatPassword   string   `json:"repeatPassword"`
}

type checkCodeRequest struct {
	VerificationCode flexCode `json:"verificationCode"`
}

type ticketRequest struct {
	Ticket string `json:"ticket"`
}

type whoAmIResponse struct {
	ID       string `json:"ID"`
	Username string `json:"USERNAME"`
}

// flexBool accepts a JSON boolean, a 0/1 number or a truthy/falsy string.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		*b = true
	case "false", "0", "no", "off":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %q", raw)
	}
	return nil
}

// flexCode accepts a verification code as a JSON number or a numeric string.
// Anything unparsable becomes -1 so that the range check rejects it.
type flexCode int

func (c *flexCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*c = -1
		return nil
	}
	*c = flexCode(n)
	return nil
}
