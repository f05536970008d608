package dto

import "testing"

func TestStrongPasswordValidation(t *testing.T) {
	type payload struct {
		Password string `validate:"strong_password"`
	}

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"upper lower and digit", "Sekret123", true},
		{"long passphrase", "CorrectHorse99battery", true},
		{"too short", "Ab1", false},
		{"seven characters", "Abcdef1", false},
		{"no uppercase", "sekret123", false},
		{"no lowercase", "SEKRET123", false},
		{"no digit", "SekretPassword", false},
		{"empty", "", false},
		{"symbols allowed alongside the rest", "Sekret123!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(payload{Password: tt.password})
			if (err == nil) != tt.valid {
				t.Errorf("password %q: valid = %v, want %v", tt.password, err == nil, tt.valid)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	req := RegisterRequest{
		Email:    "not-an-email",
		Username: "x",
		Password: "weak",
	}

	err := GetValidator().Struct(req)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	errs := FormatValidationErrors(err)
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %+v", len(errs), errs)
	}

	byField := make(map[string]string)
	for _, e := range errs {
		byField[e.Field] = e.Message
	}

	if byField["Email"] != "Invalid email format" {
		t.Errorf("Email message = %q", byField["Email"])
	}
	if byField["Username"] != "Username must be at least 3 characters" {
		t.Errorf("Username message = %q", byField["Username"])
	}
	if byField["Password"] != "Password must contain at least 8 characters with uppercase, lowercase and number" {
		t.Errorf("Password message = %q", byField["Password"])
	}
}

func TestCreateValidationErrorResponse(t *testing.T) {
	err := GetValidator().Struct(LoginRequest{})
	resp := CreateValidationErrorResponse(err)

	if resp.Code != 400 || resp.Message != "Validation failed" {
		t.Errorf("envelope = %d %q", resp.Code, resp.Message)
	}
	if len(resp.Errors) == 0 {
		t.Error("expected field errors in the response")
	}
}
