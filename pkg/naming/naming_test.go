package naming

import "testing"

func TestColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		kind  string
		want  string
	}{
		{name: "rgb with spaces", value: "rgb(255, 0, 0)", kind: "background", want: "color-background-ff0000"},
		{name: "rgb without spaces", value: "rgb(255,0,0)", kind: "background", want: "color-background-ff0000"},
		{name: "rgba drops alpha", value: "rgba(16, 32, 48, 0.5)", kind: "text", want: "color-text-102030"},
		{name: "space separated", value: "rgb(0 128 255 / 50%)", kind: "border", want: "color-border-0080ff"},
		{name: "out of range clamps", value: "rgb(300, 0, 0)", kind: "text", want: "color-text-ff0000"},
		{name: "keyword slugified", value: "currentColor", kind: "border", want: "color-border-currentColor"},
		{name: "hsl slugified", value: "hsl(10, 20%, 30%)", kind: "text", want: "color-text-hsl-10--20---30--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Color(tt.value, tt.kind); got != tt.want {
				t.Errorf("Color(%q, %q) = %q, want %q", tt.value, tt.kind, got, tt.want)
			}
		})
	}
}

func TestIsTransparent(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"rgba(0, 0, 0, 0)", true},
		{"rgba(0,0,0,0)", true},
		{"rgba(10, 20, 30, 0.0)", true},
		{"transparent", true},
		{"TRANSPARENT", true},
		{"rgba(0, 0, 0, 0.1)", false},
		{"rgb(0, 0, 0)", false},
		{"#000", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsTransparent(tt.value); got != tt.want {
				t.Errorf("IsTransparent(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFontFamily(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{`"Open Sans", Arial, sans-serif`, "font-family-open-sans"},
		{`'Inter'`, "font-family-inter"},
		{`system-ui`, "font-family-system-ui"},
		{`  Helvetica   Neue  , sans-serif`, "font-family-helvetica-neue"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := FontFamily(tt.value); got != tt.want {
				t.Errorf("FontFamily(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFontWeight(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"100", "thin"},
		{"400", "normal"},
		{"700", "bold"},
		{"900", "black"},
		{"650", "650"},
		{"bold", "bold"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := FontWeight(tt.value); got != tt.want {
				t.Errorf("FontWeight(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"16px", "16px"},
		{"1.5rem", "1-5rem"},
		{"-0.02em", "-0-02em"},
		{"0.3s", "0-3s"},
		{"12px 24px", "12px-24px"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := Slug(tt.value); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
