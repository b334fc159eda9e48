package drive

import "testing"

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://drive.google.com/drive/folders/1AbC-dEf_123", "1AbC-dEf_123"},
		{"https://drive.google.com/open?id=XYZ789", "XYZ789"},
		{"https://drive.google.com/folderview?id=fold42", "fold42"},
		{"https://example.com/nothing-here", ""},
	}

	for _, tt := range tests {
		if got := ExtractFolderID(tt.url); got != tt.expected {
			t.Errorf("ExtractFolderID(%s) = %q; want %q", tt.url, got, tt.expected)
		}
	}
}

func TestParseFolderListing(t *testing.T) {
	page := `["1a2b3c4d5e6f7g8h9i0j1k2l3m4n5",null,"report.pdf"` +
		`["9z8y7x6w5v4u3t2s1r0q9p8o7n6m5",null,"notes.txt"` +
		`["9z8y7x6w5v4u3t2s1r0q9p8o7n6m5",null,"notes.txt"`

	files := parseFolderListing(page)
	if len(files) != 2 {
		t.Fatalf("Expected 2 unique files, got %d: %v", len(files), files)
	}
	if files[0].Name != "report.pdf" || files[1].Name != "notes.txt" {
		t.Errorf("Unexpected file names: %v", files)
	}
}

func TestParseFolderListing_Empty(t *testing.T) {
	if files := parseFolderListing("<html>nothing useful</html>"); len(files) != 0 {
		t.Errorf("Expected no files, got %v", files)
	}
}

func TestConfirmTokenPattern(t *testing.T) {
	page := `<form><input type="hidden" name="confirm" value="tok123"></form>`
	m := confirmTokenPattern.FindStringSubmatch(page)
	if m == nil || m[1] != "tok123" {
		t.Errorf("Confirm token not extracted: %v", m)
	}
}
