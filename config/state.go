package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// stateVersion is written into every fresh state file.
const stateVersion = "1"

// State is the persistent `{version, agent_id}` document of spec §3/§6: a
// persistent random UUID generated on first run, loaded once into
// process-wide read-mostly state thereafter.
type State struct {
	Version string `yaml:"version"`
	AgentID string `yaml:"agent_id"`
}

// LoadOrCreateState loads the state file at path, creating it with a
// freshly generated UUID if it does not yet exist (spec §3: "Agent
// identity — persistent random UUID generated on first run").
func LoadOrCreateState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		st := &State{Version: stateVersion, AgentID: uuid.NewString()}
		if err := saveState(path, st); err != nil {
			return nil, &InvalidError{Cause: fmt.Sprintf("creating state file %s: %v", path, err)}
		}
		return st, nil
	}
	if err != nil {
		return nil, &InvalidError{Cause: fmt.Sprintf("reading state file %s: %v", path, err)}
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, &InvalidError{Cause: fmt.Sprintf("parsing state file %s: %v", path, err)}
	}
	if st.AgentID == "" {
		return nil, &InvalidError{Cause: fmt.Sprintf("state file %s is missing agent_id", path)}
	}
	return &st, nil
}

func saveState(path string, st *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
