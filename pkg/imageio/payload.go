package imageio

import (
	"fmt"
	"io"
	"os"
)

// Stdio is the path meaning stdin for ReadAll and stdout for WriteAll
const Stdio = "-"

// ReadAll reads a whole payload file
func ReadAll(path string) ([]byte, error) {
	if path == Stdio {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("imageio: read payload from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: read payload: %w", err)
	}
	return data, nil
}

// WriteAll writes the payload bytes unchanged
func WriteAll(path string, data []byte) error {
	if path == Stdio {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("imageio: write payload to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("imageio: write payload: %w", err)
	}
	return nil
}
