package kestra

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

var ErrInvalidPluginsFile = errors.New("invalid plugins file")

type pluginsFile struct {
	Plugins []filePlugin `json:"plugins"`
}

type filePlugin struct {
	Repository string `json:"repository"`
	Package    string `json:"package"`
	Name       string `json:"name"`
}

// PluginList holds the plugin coordinates at a given version and the
// repositories they are built from, both in file order.
type PluginList struct {
	Plugins      []string `json:"plugins" yaml:"plugins"`
	Repositories []string `json:"repositories" yaml:"repositories"`
}

// ListPlugins reads a plugins file content, giving each plugin the
// requested version.
func ListPlugins(content []byte, version string) (*PluginList, error) {
	parsed := pluginsFile{}
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, errors.Wrapf(ErrInvalidPluginsFile, "%v", err)
	}
	if len(parsed.Plugins) == 0 {
		return nil, errors.Wrap(ErrInvalidPluginsFile, "no plugin found")
	}

	list := &PluginList{
		Plugins:      make([]string, 0, len(parsed.Plugins)),
		Repositories: make([]string, 0, len(parsed.Plugins)),
	}
	for _, p := range parsed.Plugins {
		list.Plugins = append(list.Plugins, fmt.Sprintf("%s:%s:%s", p.Package, p.Name, version))
		list.Repositories = append(list.Repositories, p.Repository)
	}
	return list, nil
}

// ListPluginsFile is ListPlugins over the file at path.
func ListPluginsFile(path, version string) (*PluginList, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read plugins file %s", path)
	}
	return ListPlugins(content, version)
}
