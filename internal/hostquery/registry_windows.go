//go:build windows
// +build windows

package hostquery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/windows/registry"
)

var rootKeys = map[string]registry.Key{
	"HKLM":                registry.LOCAL_MACHINE,
	"HKEY_LOCAL_MACHINE":  registry.LOCAL_MACHINE,
	"HKCU":                registry.CURRENT_USER,
	"HKEY_CURRENT_USER":   registry.CURRENT_USER,
	"HKU":                 registry.USERS,
	"HKEY_USERS":          registry.USERS,
	"HKCR":                registry.CLASSES_ROOT,
	"HKEY_CLASSES_ROOT":   registry.CLASSES_ROOT,
	"HKCC":                registry.CURRENT_CONFIG,
	"HKEY_CURRENT_CONFIG": registry.CURRENT_CONFIG,
}

// RegistryValue reads a named value under a key path like
// `HKLM\SOFTWARE\Policies\Microsoft\Windows\System` and returns it in
// string form regardless of the stored registry type.
func (s *System) RegistryValue(ctx context.Context, path, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", Timeout(path, err)
	}

	root, subKey, err := splitKeyPath(path)
	if err != nil {
		return "", err
	}

	k, err := registry.OpenKey(root, subKey, registry.QUERY_VALUE)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrNotExist):
			return "", NotFound(path, err)
		case errors.Is(err, os.ErrPermission):
			return "", PermissionDenied(path, err)
		default:
			return "", fmt.Errorf("opening key %s: %w", path, err)
		}
	}
	defer k.Close()

	target := path + `\` + name

	if v, _, err := k.GetStringValue(name); err == nil {
		return v, nil
	} else if errors.Is(err, registry.ErrNotExist) {
		return "", NotFound(target, err)
	}
	if v, _, err := k.GetIntegerValue(name); err == nil {
		return strconv.FormatUint(v, 10), nil
	}
	if vs, _, err := k.GetStringsValue(name); err == nil {
		return strings.Join(vs, "\n"), nil
	}
	if b, _, err := k.GetBinaryValue(name); err == nil {
		return fmt.Sprintf("%x", b), nil
	}
	return "", fmt.Errorf("reading value %s: unsupported registry type", target)
}

// splitKeyPath splits a key path into its root key and sub key.
func splitKeyPath(path string) (registry.Key, string, error) {
	rootName, subKey, found := strings.Cut(path, `\`)
	if !found {
		rootName = path
	}
	root, ok := rootKeys[strings.ToUpper(rootName)]
	if !ok {
		return 0, "", fmt.Errorf("unknown registry root %q in %q", rootName, path)
	}
	return root, subKey, nil
}
