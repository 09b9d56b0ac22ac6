package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"yogaseq/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDir verifies that the directory exists and can be listed.
func CheckReadableDir(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDir(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckSource verifies that an asset source can be read: a local file or
// directory, or an http(s) URL answering 200.
func CheckSource(ctx context.Context, name, source string, optional bool) Result {
	result := checkSource(ctx, name, strings.TrimSpace(source))
	result.Optional = optional
	return result
}

func checkSource(ctx context.Context, name, source string) Result {
	if source == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if config.IsRemote(source) {
		status, err := probe(ctx, source)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", source, summarizeError(err))}
		}
		if status != http.StatusOK {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: HTTP %d)", source, status)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", source)}
	}

	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", source)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", source, err)}
	}
	mode := uint32(unix.R_OK)
	if info.IsDir() {
		mode |= unix.X_OK
	}
	if err := unix.Access(source, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", source, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", source)}
}

// CheckService verifies that a remote service answers. Any response below
// 500 other than an auth failure counts as reachable, since the base URL
// itself need not be a valid endpoint.
func CheckService(ctx context.Context, name, baseURL string) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	status, err := probe(ctx, base)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%s)", summarizeError(err))}
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Result{Name: name, Detail: fmt.Sprintf("auth failed (%d)", status)}
	case status >= 500:
		return Result{Name: name, Detail: fmt.Sprintf("server error (%d)", status)}
	default:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	}
}

// probe issues a GET with a five second budget and returns the status.
func probe(ctx context.Context, target string) (int, error) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// summarizeError produces a human-readable summary for request failures.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	return err.Error()
}
