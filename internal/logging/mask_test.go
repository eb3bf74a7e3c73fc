package logging

import "testing"

func TestMaskMAC(t *testing.T) {
	tests := []struct {
		name    string
		mac     string
		enabled bool
		want    string
	}{
		{
			name:    "Standard MAC with masking enabled",
			mac:     "aa:bb:cc:dd:ee:ff",
			enabled: true,
			want:    "aa:bb:cc:**:**:ff",
		},
		{
			name:    "Standard MAC with masking disabled",
			mac:     "aa:bb:cc:dd:ee:ff",
			enabled: false,
			want:    "aa:bb:cc:dd:ee:ff",
		},
		{
			name:    "Short string with masking enabled",
			mac:     "aa:bb:cc",
			enabled: true,
			want:    "aa:bb:cc", // 10文字以下はマスキングなし
		},
		{
			name:    "Empty MAC",
			mac:     "",
			enabled: true,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskMAC(tt.mac, tt.enabled)
			if got != tt.want {
				t.Errorf("MaskMAC(%q, %v) = %q, want %q", tt.mac, tt.enabled, got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("hmac-secret-value"); got != "********" {
		t.Errorf("MaskSecret() = %q, want %q", got, "********")
	}
	if got := MaskSecret(""); got != "" {
		t.Errorf("MaskSecret(\"\") = %q, want empty", got)
	}
}

func TestMasker(t *testing.T) {
	m := NewMasker(true)
	if !m.IsEnabled() {
		t.Error("IsEnabled() = false, want true")
	}
	if got := m.MAC("aa:bb:cc:dd:ee:ff"); got != "aa:bb:cc:**:**:ff" {
		t.Errorf("MAC() = %q, want masked", got)
	}

	m = NewMasker(false)
	if got := m.MAC("aa:bb:cc:dd:ee:ff"); got != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("MAC() = %q, want passthrough", got)
	}
}
