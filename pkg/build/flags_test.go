// SPDX-License-Identifier: MIT
package build

import "testing"

func TestInitialize_DefaultsWithoutLdflags(t *testing.T) {
	Initialize()

	flags := GetBuildFlags()
	if flags.Name == "" {
		t.Error("Name should never be empty")
	}
	if flags.Version == "" {
		t.Error("Version should never be empty")
	}
}

func TestInitialize_UsesLdflagValues(t *testing.T) {
	buildName = "testapp"
	buildVersion = "1.2.3"
	defer func() {
		buildName = ""
		buildVersion = ""
	}()

	Initialize()

	flags := GetBuildFlags()
	if flags.Name != "testapp" {
		t.Errorf("Name = %q, want %q", flags.Name, "testapp")
	}
	if flags.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", flags.Version, "1.2.3")
	}
}
