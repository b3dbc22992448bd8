package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/howeyc/gopass"
	"golang.org/x/term"
)

// testStdinScanner is shared across every stdin read in test mode (SVLT_TEST=1)
// so piped input is not split across multiple independent readers.
var (
	testStdinScanner *bufio.Scanner
	scannerOnce      sync.Once
)

func readLine() (string, error) {
	if os.Getenv("SVLT_TEST") != "1" {
		return "", fmt.Errorf("readLine should only be called in test mode")
	}

	scannerOnce.Do(func() {
		testStdinScanner = bufio.NewScanner(os.Stdin)
	})

	if !testStdinScanner.Scan() {
		if err := testStdinScanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", fmt.Errorf("no input provided")
	}
	return testStdinScanner.Text(), nil
}

// readLineInput reads one line of non-secret input from stdin.
func readLineInput() (string, error) {
	if os.Getenv("SVLT_TEST") == "1" {
		return readLine()
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password from stdin with asterisk masking when
// attached to a real terminal, or a plain line in test/pipe mode.
func readPassword() ([]byte, error) {
	if os.Getenv("SVLT_TEST") == "1" {
		line, err := readLine()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return []byte(line), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var password string
		_, err := fmt.Scanln(&password)
		return []byte(password), err
	}

	passwordBytes, err := gopass.GetPasswdMasked()
	if err != nil {
		return nil, err
	}

	return passwordBytes, nil
}

// promptYesNo prompts for a y/n confirmation, returning defaultYes when the
// user presses enter without typing anything.
func promptYesNo(prompt string, defaultYes bool) (bool, error) {
	if defaultYes {
		fmt.Printf("%s (Y/n): ", prompt)
	} else {
		fmt.Printf("%s (y/N): ", prompt)
	}

	response, err := readLineInput()
	if err != nil {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))

	switch response {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return defaultYes, nil
	}
}

func logVerbose(verbose bool, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
