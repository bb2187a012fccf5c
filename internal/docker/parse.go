package docker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-units"
)

// psCreatedAtLayout matches the CLI's CreatedAt rendering,
// e.g. "2024-03-01 10:22:15 +0000 UTC".
const psCreatedAtLayout = "2006-01-02 15:04:05 -0700 MST"

// ContainerSummary is one row of docker ps output.
type ContainerSummary struct {
	ID      string
	Name    string
	Image   string
	Command string
	State   string
	Status  string
	Ports   []string
	Labels  map[string]string
	Created time.Time
	Size    int64 // bytes; 0 when ps ran without --size
}

// Running reports whether the container is in the running state.
func (c ContainerSummary) Running() bool { return c.State == "running" }

// psEntry mirrors the JSON emitted by docker ps --format '{{json .}}'.
type psEntry struct {
	ID        string `json:"ID"`
	Names     string `json:"Names"`
	Image     string `json:"Image"`
	Command   string `json:"Command"`
	State     string `json:"State"`
	Status    string `json:"Status"`
	Ports     string `json:"Ports"`
	Labels    string `json:"Labels"`
	CreatedAt string `json:"CreatedAt"`
	Size      string `json:"Size"`
}

// ParsePs decodes the JSON-lines output of docker ps. Malformed lines
// are skipped; the CLI occasionally interleaves warnings on stdout and
// parsing is best-effort by design.
func ParsePs(out string) ([]ContainerSummary, error) {
	var containers []ContainerSummary
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}

		var e psEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}

		c := ContainerSummary{
			ID:      e.ID,
			Name:    firstField(e.Names, ","),
			Image:   e.Image,
			Command: strings.Trim(e.Command, `"`),
			State:   e.State,
			Status:  e.Status,
			Ports:   splitList(e.Ports),
			Labels:  parseLabels(e.Labels),
		}
		if e.CreatedAt != "" {
			if ts, err := time.Parse(psCreatedAtLayout, e.CreatedAt); err == nil {
				c.Created = ts
			}
		}
		if e.Size != "" {
			// "12.3MB (virtual 133MB)" — the leading figure is the
			// writable layer size.
			if n, err := units.FromHumanSize(firstField(e.Size, " ")); err == nil {
				c.Size = n
			}
		}
		containers = append(containers, c)
	}
	return containers, nil
}

// ImageSummary is one row of docker images output.
type ImageSummary struct {
	ID         string
	Repository string
	Tag        string
	Digest     string
	Created    time.Time
	Size       int64 // bytes
}

type imageEntry struct {
	ID         string `json:"ID"`
	Repository string `json:"Repository"`
	Tag        string `json:"Tag"`
	Digest     string `json:"Digest"`
	CreatedAt  string `json:"CreatedAt"`
	Size       string `json:"Size"`
}

// ParseImages decodes the JSON-lines output of docker images.
func ParseImages(out string) ([]ImageSummary, error) {
	var images []ImageSummary
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}

		var e imageEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}

		img := ImageSummary{
			ID:         e.ID,
			Repository: e.Repository,
			Tag:        e.Tag,
			Digest:     e.Digest,
		}
		if e.CreatedAt != "" {
			if ts, err := time.Parse(psCreatedAtLayout, e.CreatedAt); err == nil {
				img.Created = ts
			}
		}
		if e.Size != "" {
			if n, err := units.FromHumanSize(e.Size); err == nil {
				img.Size = n
			}
		}
		images = append(images, img)
	}
	return images, nil
}

// ParseInspect decodes docker inspect output into the Docker SDK's
// container types. The CLI always emits a JSON array, even for a single
// container.
func ParseInspect(out string) ([]container.InspectResponse, error) {
	var containers []container.InspectResponse
	if err := json.Unmarshal([]byte(out), &containers); err != nil {
		return nil, fmt.Errorf("parse inspect output: %w", err)
	}
	return containers, nil
}

// VersionInfo holds docker version details. Server is nil when the
// daemon was unreachable.
type VersionInfo struct {
	Client VersionDetail  `json:"Client"`
	Server *VersionDetail `json:"Server"`
}

// VersionDetail is one side (client or server) of docker version output.
type VersionDetail struct {
	Version    string `json:"Version"`
	APIVersion string `json:"ApiVersion"`
	GoVersion  string `json:"GoVersion"`
	Os         string `json:"Os"`
	Arch       string `json:"Arch"`
}

// ParseVersion decodes docker version --format '{{json .}}' output.
func ParseVersion(out string) (*VersionInfo, error) {
	var v VersionInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &v); err != nil {
		return nil, fmt.Errorf("parse version output: %w", err)
	}
	return &v, nil
}

// parseTable splits tab-separated CLI output into rows, skipping blank
// lines and rows with fewer than minCols columns.
func parseTable(out string, minCols int) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < minCols {
			continue
		}
		rows = append(rows, cols)
	}
	return rows
}

// parseLabels splits the CLI's "k1=v1,k2=v2" label rendering.
func parseLabels(s string) map[string]string {
	if s == "" {
		return nil
	}
	labels := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		labels[k] = v
	}
	return labels
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func firstField(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}
