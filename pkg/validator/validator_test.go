package validator

import "testing"

type slotRequest struct {
	Date  string `json:"date" validate:"required,isodate"`
	Start string `json:"start_time" validate:"required,hhmm"`
	Limit int    `json:"limit" validate:"gte=0"`
}

func TestValidateCustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     slotRequest
		invalid []string
	}{
		{"valid", slotRequest{Date: "2025-03-03", Start: "09:30"}, nil},
		{"bad date", slotRequest{Date: "2025-02-30", Start: "09:30"}, []string{"date"}},
		{"bad clock", slotRequest{Date: "2025-03-03", Start: "25:00"}, []string{"start_time"}},
		{"missing and negative", slotRequest{Limit: -1}, []string{"date", "start_time", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if len(tt.invalid) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			fields := v.FormatValidationErrors(err)
			if len(fields) != len(tt.invalid) {
				t.Errorf("expected %d field errors, got %v", len(tt.invalid), fields)
			}
			for _, name := range tt.invalid {
				if _, ok := fields[name]; !ok {
					t.Errorf("expected an error for %s, got %v", name, fields)
				}
			}
		})
	}
}

func TestFormatValidationErrorsMessages(t *testing.T) {
	v := NewValidator()
	fields := v.FormatValidationErrors(v.Validate(&slotRequest{Date: "soon", Start: "noon"}))

	if fields["date"] != "date must be a date in YYYY-MM-DD format" {
		t.Errorf("unexpected date message %q", fields["date"])
	}
	if fields["start_time"] != "start_time must be a time in HH:MM format" {
		t.Errorf("unexpected start_time message %q", fields["start_time"])
	}
}
