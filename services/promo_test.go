package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/perplexity-school/api/model"
	"github.com/perplexity-school/api/shared"
)

func TestCanActivate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		promo   model.PromoCode
		wantErr bool
	}{
		{
			name:  "pending code activates",
			promo: model.PromoCode{Status: shared.PromoStatusPending, ExpiresAt: now.Add(24 * time.Hour)},
		},
		{
			name:  "pending code with no expiry activates",
			promo: model.PromoCode{Status: shared.PromoStatusPending},
		},
		{
			name:    "already activated",
			promo:   model.PromoCode{Status: shared.PromoStatusActivated, ExpiresAt: now.Add(24 * time.Hour)},
			wantErr: true,
		},
		{
			name:    "marked expired",
			promo:   model.PromoCode{Status: shared.PromoStatusExpired},
			wantErr: true,
		},
		{
			name:    "pending but past expiry",
			promo:   model.PromoCode{Status: shared.PromoStatusPending, ExpiresAt: now.Add(-time.Minute)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanActivate(&tt.promo, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanActivate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			appErr, ok := shared.GetAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.StatusCode != http.StatusConflict {
				t.Errorf("status = %d, want %d", appErr.StatusCode, http.StatusConflict)
			}
		})
	}
}

func TestNewPromoCodeValue(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := NewPromoCodeValue()
		if err != nil {
			t.Fatalf("NewPromoCodeValue() error = %v", err)
		}
		if !strings.HasPrefix(code, "PPLX-") {
			t.Fatalf("code %q missing PPLX- prefix", code)
		}
		suffix := strings.TrimPrefix(code, "PPLX-")
		if len(suffix) != 8 {
			t.Fatalf("code %q suffix length = %d, want 8", code, len(suffix))
		}
		for _, r := range suffix {
			if !strings.ContainsRune(promoCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}

	if len(seen) < 2 {
		t.Error("expected distinct codes across generations")
	}
}
