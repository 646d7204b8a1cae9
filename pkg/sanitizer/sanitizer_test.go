package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Seaside Cottage", "Seaside Cottage"},
		{"leading and trailing spaces", "  Seaside Cottage  ", "Seaside Cottage"},
		{"inner whitespace collapsed", "Seaside \t\n Cottage", "Seaside Cottage"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimAndNormalize_Idempotent(t *testing.T) {
	input := "  Lake   View \t Loft "
	once := TrimAndNormalize(input)
	twice := TrimAndNormalize(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"http upgraded", "http://CDN.Example.com/img/1.jpg", "https://cdn.example.com/img/1.jpg"},
		{"already https", "https://cdn.example.com/img/1.jpg", "https://cdn.example.com/img/1.jpg"},
		{"bare domain", "cdn.example.com", "https://cdn.example.com"},
		{"trailing slash stripped", "https://cdn.example.com/", "https://cdn.example.com"},
		{"path casing preserved", "https://cdn.example.com/Img/Photo.JPG", "https://cdn.example.com/Img/Photo.JPG"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeImages(t *testing.T) {
	input := []string{
		"http://cdn.example.com/a.jpg",
		"https://cdn.example.com/a.jpg", // duplicate after normalization
		"",
		"https://cdn.example.com/b.jpg",
	}
	want := []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}

	if got := NormalizeImages(input); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeImages() = %v, want %v", got, want)
	}
}

func TestNormalizeImages_Nil(t *testing.T) {
	got := NormalizeImages(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}
