// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclSource struct {
	Kind    *string `hcl:"kind,optional"`
	BaseURL *string `hcl:"base_url,optional"`
	Repo    *string `hcl:"repo,optional"`
	Ref     *string `hcl:"ref,optional"`
	Path    *string `hcl:"path,optional"`
}

type hclLayout struct {
	Mirror             *string `hcl:"mirror,optional"`
	Renamed            *string `hcl:"renamed,optional"`
	OriginalComparison *string `hcl:"original_comparison,optional"`
	RenamedComparison  *string `hcl:"renamed_comparison,optional"`
}

type hclRename struct {
	Prefix   *string  `hcl:"prefix,optional"`
	Packages []string `hcl:"packages,optional"`
}

type hclConfig struct {
	Source        *hclSource `hcl:"source,block"`
	Layout        *hclLayout `hcl:"layout,block"`
	Rename        *hclRename `hcl:"rename,block"`
	Roots         []string   `hcl:"roots,optional"`
	Extension     *string    `hcl:"extension,optional"`
	ExclusionFile *string    `hcl:"exclusion_file,optional"`
}

// 📝 Parse parses the config from HCL. Expressions may reference env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	if s := hclCfg.Source; s != nil {
		setString(&cfg.Source.Kind, s.Kind)
		setString(&cfg.Source.BaseURL, s.BaseURL)
		setString(&cfg.Source.Repo, s.Repo)
		setString(&cfg.Source.Ref, s.Ref)
		setString(&cfg.Source.Path, s.Path)
	}
	if l := hclCfg.Layout; l != nil {
		setString(&cfg.Layout.Mirror, l.Mirror)
		setString(&cfg.Layout.Renamed, l.Renamed)
		setString(&cfg.Layout.OriginalComparison, l.OriginalComparison)
		setString(&cfg.Layout.RenamedComparison, l.RenamedComparison)
	}
	if r := hclCfg.Rename; r != nil {
		setString(&cfg.Rename.Prefix, r.Prefix)
		if r.Packages != nil {
			cfg.Rename.Packages = r.Packages
		}
	}
	if hclCfg.Roots != nil {
		cfg.Roots = hclCfg.Roots
	}
	setString(&cfg.Extension, hclCfg.Extension)
	setString(&cfg.ExclusionFile, hclCfg.ExclusionFile)

	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// 🌍 envObject exposes the process environment to HCL expressions
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
