package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"`   // "ready", "warnings", "errors"
	Selected string       `json:"selected"` // engine an export would use
	Engines  []engineInfo `json:"engines"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// engineInfo holds detection results for one rendering engine.
type engineInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEngines(result)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngines detects every rendering engine in priority order.
func checkEngines(result *doctorResult) {
	result.Engines = append(result.Engines, checkChrome(result.Env.BrowserBin))
	for _, bin := range []string{"pandoc", "wkhtmltopdf", "weasyprint"} {
		result.Engines = append(result.Engines, checkTool(bin))
	}

	for _, e := range result.Engines {
		if e.Found {
			result.Selected = e.Name
			return
		}
	}
	// Chrome stays the attempt of last resort: rod can fetch a managed
	// Chromium when none is installed.
	result.Selected = "chrome"
	result.Errors = append(result.Errors,
		"no rendering engine found. Install Chrome, pandoc, wkhtmltopdf, or weasyprint, or set ROD_BROWSER_BIN")
}

// checkChrome detects Chrome/Chromium via rod's launcher.
func checkChrome(browserBin string) engineInfo {
	info := engineInfo{Name: "chrome"}

	chromePath := browserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			return info
		}
	}
	if _, err := os.Stat(chromePath); err != nil {
		return info
	}

	info.Found = true
	info.Path = chromePath
	info.Version = toolVersion(chromePath)
	return info
}

// checkTool detects a command-line engine on PATH.
func checkTool(bin string) engineInfo {
	info := engineInfo{Name: bin}
	path, err := exec.LookPath(bin)
	if err != nil {
		return info
	}
	info.Found = true
	info.Path = path
	info.Version = toolVersion(path)
	return info
}

// toolVersion runs <tool> --version and returns the first output line.
func toolVersion(path string) string {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return version
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("REPOPDF_CONTAINER") == "1" {
		return true, "REPOPDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "repopdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult writes a human-readable diagnostic report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "Status: %s\n", result.Status)
	fmt.Fprintf(w, "Selected engine: %s\n\n", result.Selected)

	fmt.Fprintln(w, "Engines:")
	for _, e := range result.Engines {
		if !e.Found {
			fmt.Fprintf(w, "  %-12s not found\n", e.Name)
			continue
		}
		line := e.Path
		if e.Version != "" {
			line += " (" + e.Version + ")"
		}
		fmt.Fprintf(w, "  %-12s %s\n", e.Name, line)
	}

	fmt.Fprintf(w, "\nEnvironment: %s/%s", result.Env.OS, result.Env.Arch)
	if result.Env.Container {
		fmt.Fprintf(w, ", container (%s)", result.Env.ContainerHint)
	}
	if result.Env.CI {
		fmt.Fprint(w, ", CI")
	}
	fmt.Fprintln(w)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "\nWarning: %s\n", warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "\nError: %s\n", e)
	}
}
