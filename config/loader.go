package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
)

// ErrJobNotFound is returned when the job file does not exist.
var ErrJobNotFound = errors.New("job file not found")

// ErrUnsupportedFile is returned for extensions other than .yaml, .yml and .hcl.
var ErrUnsupportedFile = errors.New("job file must be .yaml, .yml or .hcl")

// Load reads a job file, chosen by extension, applies defaults and
// validates it.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided job path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrJobNotFound, "%s", path)
		}
		return nil, errors.Wrap(err, "read job file")
	}

	var job *Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		job, err = ParseYAML(data)
	case ".hcl":
		job, err = ParseHCL(data, path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFile, "%s", path)
	}
	if err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid job %s", path)
	}
	return job, nil
}

// ParseYAML decodes a YAML job and applies defaults. It does not validate.
func ParseYAML(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, errors.Wrap(err, "decode YAML job")
	}
	job.applyDefaults()
	return &job, nil
}

// ParseHCL decodes an HCL job and applies defaults. filename is only used
// in diagnostics. It does not validate.
func ParseHCL(data []byte, filename string) (*Job, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse HCL job %s", filename)
	}

	var job Job
	if diags := gohcl.DecodeBody(file.Body, nil, &job); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decode HCL job %s", filename)
	}
	job.applyDefaults()
	return &job, nil
}
