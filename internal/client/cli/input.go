package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/interntrack/internal/models"
	"golang.org/x/term"
)

// readPassword is swapped out in tests so nothing touches the terminal.
var readPassword = term.ReadPassword

// readLine returns the next line without its line ending. A last line
// without a newline is still returned; io.EOF only comes with no input.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText asks for one value on the same line as the label:
//
//	Company: _
func GetSimpleText(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo. The caller
// wipes the returned slice.
func GetPassword(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetStatus asks for a pipeline stage. An empty answer returns "" so the
// caller can apply its own default, shown in brackets.
func GetStatus(reader *bufio.Reader, def models.Status, w io.Writer) (models.Status, error) {
	raw, err := GetSimpleText(reader, fmt.Sprintf("Status (%s) [%s]", statusNames(), def), w)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", nil
	}
	return models.ParseStatus(raw)
}

// GetNotes reads free-form application notes until an empty line or the
// end of input. Inner indentation is kept; surrounding blank space is not.
func GetNotes(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s (empty line to finish):\n", label); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
