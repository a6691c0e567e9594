package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr error
	}{
		{name: "patient", input: "patient", want: RolePatient},
		{name: "doctor", input: "doctor", want: RoleDoctor},
		{name: "hospital", input: "hospital", want: RoleHospital},
		{name: "empty string", input: "", wantErr: ErrUnknownRole},
		{name: "unknown role", input: "admin", wantErr: ErrUnknownRole},
		{name: "case sensitive", input: "Patient", wantErr: ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if err != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		wantErr error
	}{
		{
			name:    "valid patient session",
			session: &Session{ID: "patient-1", Name: "John Doe", Role: RolePatient},
		},
		{
			name:    "nil session",
			session: nil,
			wantErr: ErrInvalidSession,
		},
		{
			name:    "missing id",
			session: &Session{Role: RoleDoctor},
			wantErr: ErrInvalidSession,
		},
		{
			name:    "missing role",
			session: &Session{ID: "patient-1"},
			wantErr: ErrUnknownRole,
		},
		{
			name:    "role outside the closed set",
			session: &Session{ID: "x", Role: Role("superuser")},
			wantErr: ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.session.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSession_Clone(t *testing.T) {
	orig := &Session{
		ID:      "patient-1",
		Name:    "John Doe",
		Role:    RolePatient,
		Profile: map[string]any{"blood_group": "O+"},
	}

	cp := orig.Clone()
	if cp == orig {
		t.Fatal("Clone returned the same pointer")
	}
	cp.Name = "Jane Doe"
	cp.Profile["blood_group"] = "AB-"

	if orig.Name != "John Doe" {
		t.Errorf("mutating clone changed original name: %q", orig.Name)
	}
	if orig.Profile["blood_group"] != "O+" {
		t.Errorf("mutating clone changed original profile: %v", orig.Profile)
	}

	var absent *Session
	if absent.Clone() != nil {
		t.Error("Clone of nil session should be nil")
	}
}
