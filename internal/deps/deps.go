package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external tool and the command configured for it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports whether a requirement can be executed.
type Status struct {
	Requirement
	// Path is the absolute executable when Command was a bare name found on PATH.
	Path      string
	Available bool
	Detail    string
}

// CheckBinaries evaluates each requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

func check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}

	switch {
	case req.Command == "":
		status.Detail = "command not configured"
	case !IsExecutable(req.Command):
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
	default:
		status.Available = true
		status.Path = req.Command
		if !strings.ContainsRune(req.Command, '/') {
			if resolved, err := exec.LookPath(req.Command); err == nil {
				status.Path = resolved
			}
		}
	}
	return status
}
