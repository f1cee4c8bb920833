package diag

import "testing"

func TestDetailKeyConstants(t *testing.T) {
	// Verify all standard detail keys are non-empty and follow naming conventions
	keys := []struct {
		name  string
		value string
	}{
		{"DetailKeyExpected", DetailKeyExpected},
		{"DetailKeyGot", DetailKeyGot},
		{"DetailKeyEnvironment", DetailKeyEnvironment},
		{"DetailKeyCommand", DetailKeyCommand},
		{"DetailKeyReason", DetailKeyReason},
		{"DetailKeyIncludePath", DetailKeyIncludePath},
		{"DetailKeyResolvedPath", DetailKeyResolvedPath},
		{"DetailKeyCycleChain", DetailKeyCycleChain},
		{"DetailKeyConfigKey", DetailKeyConfigKey},
		{"DetailKeyBuildTool", DetailKeyBuildTool},
		{"DetailKeyLogLine", DetailKeyLogLine},
		{"DetailKeyContext", DetailKeyContext},
		{"DetailKeyId", DetailKeyId},
	}

	for _, k := range keys {
		t.Run(k.name, func(t *testing.T) {
			if k.value == "" {
				t.Errorf("%s is empty", k.name)
			}
			// Verify lower_snake_case (no uppercase letters)
			for _, r := range k.value {
				if r >= 'A' && r <= 'Z' {
					t.Errorf("%s contains uppercase: %q", k.name, k.value)
					break
				}
			}
		})
	}
}

func TestDetailKeyConstants_Uniqueness(t *testing.T) {
	keys := []string{
		DetailKeyExpected,
		DetailKeyGot,
		DetailKeyEnvironment,
		DetailKeyCommand,
		DetailKeyReason,
		DetailKeyIncludePath,
		DetailKeyResolvedPath,
		DetailKeyCycleChain,
		DetailKeyConfigKey,
		DetailKeyBuildTool,
		DetailKeyLogLine,
		DetailKeyContext,
		DetailKeyId,
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key: %q", k)
		}
		seen[k] = true
	}
}

func TestExpectedGot(t *testing.T) {
	details := ExpectedGot("string", "int")

	if len(details) != 2 {
		t.Fatalf("ExpectedGot returned %d details; want 2", len(details))
	}

	if details[0].Key != DetailKeyExpected {
		t.Errorf("first detail key = %q; want %q", details[0].Key, DetailKeyExpected)
	}
	if details[0].Value != "string" {
		t.Errorf("first detail value = %q; want %q", details[0].Value, "string")
	}

	if details[1].Key != DetailKeyGot {
		t.Errorf("second detail key = %q; want %q", details[1].Key, DetailKeyGot)
	}
	if details[1].Value != "int" {
		t.Errorf("second detail value = %q; want %q", details[1].Value, "int")
	}
}

func TestEnvironmentMismatch(t *testing.T) {
	details := EnvironmentMismatch("itemize", "enumerate")

	if len(details) != 2 {
		t.Fatalf("EnvironmentMismatch returned %d details; want 2", len(details))
	}

	if details[0].Key != DetailKeyEnvironment {
		t.Errorf("first detail key = %q; want %q", details[0].Key, DetailKeyEnvironment)
	}
	if details[0].Value != "itemize" {
		t.Errorf("first detail value = %q; want %q", details[0].Value, "itemize")
	}

	if details[1].Key != DetailKeyGot {
		t.Errorf("second detail key = %q; want %q", details[1].Key, DetailKeyGot)
	}
	if details[1].Value != "enumerate" {
		t.Errorf("second detail value = %q; want %q", details[1].Value, "enumerate")
	}
}

func TestIncludeResolution(t *testing.T) {
	details := IncludeResolution("chapters/intro.tex", "absent")

	if len(details) != 2 {
		t.Fatalf("IncludeResolution returned %d details; want 2", len(details))
	}

	if details[0].Key != DetailKeyIncludePath {
		t.Errorf("first detail key = %q; want %q", details[0].Key, DetailKeyIncludePath)
	}
	if details[0].Value != "chapters/intro.tex" {
		t.Errorf("first detail value = %q; want %q", details[0].Value, "chapters/intro.tex")
	}

	if details[1].Key != DetailKeyReason {
		t.Errorf("second detail key = %q; want %q", details[1].Key, DetailKeyReason)
	}
	if details[1].Value != "absent" {
		t.Errorf("second detail value = %q; want %q", details[1].Value, "absent")
	}
}

func TestConfigField(t *testing.T) {
	details := ConfigField("build.tool")

	if len(details) != 1 {
		t.Fatalf("ConfigField returned %d details; want 1", len(details))
	}

	if details[0].Key != DetailKeyConfigKey {
		t.Errorf("detail key = %q; want %q", details[0].Key, DetailKeyConfigKey)
	}
	if details[0].Value != "build.tool" {
		t.Errorf("detail value = %q; want %q", details[0].Value, "build.tool")
	}
}

func TestDetail_ZeroValue(t *testing.T) {
	var d Detail
	if d.Key != "" {
		t.Errorf("zero Detail.Key = %q; want empty", d.Key)
	}
	if d.Value != "" {
		t.Errorf("zero Detail.Value = %q; want empty", d.Value)
	}
}
