// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/base64"
	"fmt"
	"os"
)

// EncodeFile writes the standard base64 encoding of src to dst as a single
// unwrapped line with no trailing newline. dst gets src's permissions, so a
// private key's encoding is as restricted as the key.
func EncodeFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", src, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", src, err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if err := os.WriteFile(dst, []byte(encoded), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	// WriteFile only applies the mode when it creates dst.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
