package hostquery

import (
	"context"
	"strings"
)

// Fake is an in-memory Provider for tests. Keys for registry values are
// `path\name`; keys for command output are the command name joined with its
// arguments by spaces. Populated errors win over populated values.
type Fake struct {
	RegistryValues map[string]string
	RegistryErrs   map[string]error
	Services       map[string]ServiceStatus
	ServiceErrs    map[string]error
	Files          map[string]FileInfo
	FileErrs       map[string]error
	Commands       map[string]string
	CommandErrs    map[string]error
}

// NewFake creates an empty fake host.
func NewFake() *Fake {
	return &Fake{
		RegistryValues: make(map[string]string),
		RegistryErrs:   make(map[string]error),
		Services:       make(map[string]ServiceStatus),
		ServiceErrs:    make(map[string]error),
		Files:          make(map[string]FileInfo),
		FileErrs:       make(map[string]error),
		Commands:       make(map[string]string),
		CommandErrs:    make(map[string]error),
	}
}

func (f *Fake) RegistryValue(ctx context.Context, path, name string) (string, error) {
	key := path + `\` + name
	if err, ok := f.RegistryErrs[key]; ok {
		return "", err
	}
	if v, ok := f.RegistryValues[key]; ok {
		return v, nil
	}
	return "", NotFound(key, nil)
}

func (f *Fake) ServiceState(ctx context.Context, name string) (ServiceStatus, error) {
	if err, ok := f.ServiceErrs[name]; ok {
		return ServiceStatus{}, err
	}
	if st, ok := f.Services[name]; ok {
		return st, nil
	}
	return ServiceStatus{}, NotFound(name, nil)
}

func (f *Fake) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err, ok := f.FileErrs[path]; ok {
		return FileInfo{}, err
	}
	if fi, ok := f.Files[path]; ok {
		return fi, nil
	}
	return FileInfo{}, NotFound(path, nil)
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if err, ok := f.CommandErrs[key]; ok {
		return "", err
	}
	if out, ok := f.Commands[key]; ok {
		return out, nil
	}
	return "", NotFound(key, nil)
}
