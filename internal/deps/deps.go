package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is an external program yogaseq can call.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries resolves each requirement on PATH. Command may carry
// arguments ("mpv --no-video"); only the program name is looked up.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(req.Command),
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		program := Program(req.Command)
		switch {
		case program == "":
			status.Detail = "command not configured"
		default:
			resolved, err := exec.LookPath(program)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", program)
				break
			}
			status.Available = true
			status.Detail = resolved
		}
		results = append(results, status)
	}
	return results
}

// Program returns the executable part of a command line.
func Program(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
