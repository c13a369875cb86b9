package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	apperrors "rn518panel/internal/errors"
)

// LoadFlaggedList reads one entity id per line. Blank lines and lines starting
// with # are skipped.
func LoadFlaggedList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("flagged list %s", path))
		}
		return nil, apperrors.NewStorageError("failed to open flagged list", err).WithContext("path", path)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewParsingError("failed to read flagged list", err).WithContext("path", path)
	}
	return ids, nil
}
