package data

import "testing"

func TestAccessMode_Predicates(t *testing.T) {
	if !AccessModeRead.IsReadOnly() || AccessModeRead.CanWrite() {
		t.Error("AccessModeRead should be read-only")
	}
	if !AccessModeWrite.IsWriteOnly() || AccessModeWrite.CanRead() {
		t.Error("AccessModeWrite should be write-only")
	}

	rw := AccessModeReadWrite
	if !rw.IsReadWrite() || !rw.CanRead() || !rw.CanWrite() {
		t.Error("AccessModeReadWrite should allow both directions")
	}
	if rw.IsReadOnly() || rw.IsWriteOnly() {
		t.Error("AccessModeReadWrite should be neither read-only nor write-only")
	}

	full := AccessModeWrite | AccessModeAppend | AccessModeCreate | AccessModeTrunc | AccessModeExcl
	if !full.HasAppend() || !full.HasCreate() || !full.HasTrunc() || !full.HasExcl() {
		t.Error("Combined mode should report all flags")
	}

	if AccessModeRead.HasAppend() || AccessModeRead.HasCreate() {
		t.Error("AccessModeRead should not report write flags")
	}
}

func TestFileType_Strings(t *testing.T) {
	cases := map[string]FileType{
		"REG": FileTypeRegular,
		"DIR": FileTypeDirectory,
		"LNK": FileTypeSymlink,
		"???": FileTypeUnknown,
	}

	for wire, expected := range cases {
		if got := FileTypeFromString(wire); got != expected {
			t.Errorf("FileTypeFromString(%q): expected %v, got %v", wire, expected, got)
		}
	}

	if FileTypeRegular.String() != "REG" {
		t.Errorf("Expected 'REG', got %q", FileTypeRegular.String())
	}
	if FileTypeDirectory.String() != "DIR" {
		t.Errorf("Expected 'DIR', got %q", FileTypeDirectory.String())
	}
}
