package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// iRunCommand executes a CLI command and records its outcome.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = strings.ReplaceAll(command, "{temp_dir}", testCtx.TempDir)

	testCtx.LastCommand = command
	start := time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(start)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command exited zero.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command exited nonzero.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies the output parses as JSON,
// skipping any log lines before the payload.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	jsonPart, err := testCtx.jsonPayload()
	if err != nil {
		return err
	}
	var js json.RawMessage
	if err := json.Unmarshal([]byte(jsonPart), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nJSON part: %s", err, jsonPart)
	}
	return nil
}

// theJSONShouldContain verifies the JSON payload has a top-level field.
func (testCtx *TestContext) theJSONShouldContain(field string) error {
	jsonPart, err := testCtx.jsonPayload()
	if err != nil {
		return err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(jsonPart), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, exists := data[field]; !exists {
		return fmt.Errorf("field '%s' not found in JSON: %s", field, jsonPart)
	}
	return nil
}

func (testCtx *TestContext) jsonPayload() (string, error) {
	output := strings.TrimSpace(testCtx.LastOutput)
	jsonStart := strings.IndexAny(output, "{[")
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in output: %s", testCtx.LastOutput)
	}
	return output[jsonStart:], nil
}

// theErrorShouldMention verifies the failure text, case-insensitively.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastOutput
	if testCtx.LastError != nil {
		fullErrorText += " " + testCtx.LastError.Error()
	}

	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}
	return nil
}

// theOutputShouldContainUsageInformation verifies help-style output.
func (testCtx *TestContext) theOutputShouldContainUsageInformation() error {
	for _, indicator := range []string{"Usage:", "usage:", "help", "Help"} {
		if strings.Contains(testCtx.LastOutput, indicator) {
			return nil
		}
	}
	return fmt.Errorf("output does not contain usage information: %s", testCtx.LastOutput)
}

// theOutputShouldListAvailableSubcommands verifies the command listing.
func (testCtx *TestContext) theOutputShouldListAvailableSubcommands() error {
	for _, cmd := range []string{"verify", "batch", "requirements", "serve"} {
		if !strings.Contains(testCtx.LastOutput, cmd) {
			return fmt.Errorf("subcommand not listed: %s", cmd)
		}
	}
	return nil
}

// RegisterCLISteps registers command execution and output steps.
func (testCtx *TestContext) RegisterCLISteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the JSON should contain "([^"]*)"$`, testCtx.theJSONShouldContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the output should contain usage information$`, testCtx.theOutputShouldContainUsageInformation)
	sc.Step(`^the output should list available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, func(name, value string) error {
		testCtx.AddEnvVar(name, value)
		return nil
	})
}
