//go:build windows

package probe

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// readEmbeddedVersion returns the fixed file version resource as "major.minor.build.revision".
func readEmbeddedVersion(path string) (string, error) {
	var zeroHandle windows.Handle

	size, err := windows.GetFileVersionInfoSize(path, &zeroHandle)
	if err != nil {
		if errors.Is(err, windows.ERROR_RESOURCE_TYPE_NOT_FOUND) ||
			errors.Is(err, windows.ERROR_RESOURCE_DATA_NOT_FOUND) {
			return "", nil
		}

		return "", fmt.Errorf("get file version info size: %w", err)
	}

	if size == 0 {
		return "", nil
	}

	buffer := make([]byte, size)
	if err = windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&buffer[0])); err != nil {
		return "", fmt.Errorf("get file version info: %w", err)
	}

	var (
		fixed     *windows.VS_FIXEDFILEINFO
		fixedSize uint32
	)

	err = windows.VerQueryValue(unsafe.Pointer(&buffer[0]), `\`, unsafe.Pointer(&fixed), &fixedSize)
	if err != nil {
		return "", fmt.Errorf("query fixed file info: %w", err)
	}

	if fixed == nil || fixedSize == 0 || (fixed.FileVersionMS == 0 && fixed.FileVersionLS == 0) {
		return "", nil
	}

	return fmt.Sprintf("%d.%d.%d.%d",
		fixed.FileVersionMS>>16, fixed.FileVersionMS&0xffff,
		fixed.FileVersionLS>>16, fixed.FileVersionLS&0xffff,
	), nil
}
