package errors

import (
	"testing"
)

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid black", "#000000", false},
		{"valid white", "#FFFFFF", false},
		{"valid dark gray", "#1a1a1a", false},
		{"valid github dark", "#0d1117", false},
		{"valid short form", "#abc", false},
		{"valid mixed case", "#AbCdEf", false},

		{"empty", "", true},
		{"missing hash", "000000", true},
		{"too short", "#ab", true},
		{"too long", "#1234567", true},
		{"four digits", "#abcd", true},
		{"invalid digit", "#00000g", true},
		{"named color", "black", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClassID(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"small", 7, false},
		{"large", 99999, false},

		{"negative", -1, true},
		{"over limit", 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClassID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClassID(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCanvasSize(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{"fhd", 1920, 1080, false},
		{"square", 640, 640, false},
		{"tiny", 1, 1, false},
		{"max", 16384, 16384, false},

		{"zero width", 0, 1080, true},
		{"zero height", 1920, 0, true},
		{"negative", -640, 640, true},
		{"over max", 16385, 1080, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvasSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCanvasSize(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStemPrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "synth", false},
		{"valid with dash", "ui-elements", false},
		{"valid with underscore", "batch_01", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control char", "a\x01b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStemPrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStemPrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateManifestFileRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "button.png", false},
		{"valid nested", "crops/twitter/button.png", false},
		{"valid with class prefix", "3_like_button_0042.png", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../outside.png", true},
		{"traversal nested", "crops/../../outside.png", true},
		{"backslash", "crops\\button.png", true},
		{"null byte", "a\x00b.png", true},
		{"control char", "a\x01b.png", true},
		{"too long", string(make([]byte, 501)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFileRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFileRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
