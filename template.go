package zerv

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

// RenderTemplate renders a version template against the model. Variables
// are exposed under their registry names, holding only the fields that
// have values, so a reference to an empty field fails with an
// UnresolvedTemplateVariableError rather than printing a blank.
//
// Besides the sprig helpers, templates get three pure functions:
// "sanitize" cleans a value for a target (semver, pep440_local, uint or
// key), "shorthash" abbreviates an object name, and "timestamp" formats
// a Unix time with a calendar pattern.
func RenderTemplate(text string, z *Zerv) (string, error) {
	tmpl, err := template.New("version").
		Funcs(sprig.TxtFuncMap()).
		Funcs(templateFuncs()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, templateContext(z)); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return "", &UnresolvedTemplateVariableError{Name: m[1]}
		}
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return b.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"sanitize": func(target, value string) (string, error) {
			var san Sanitizer
			switch target {
			case "semver":
				san = SemVerSanitizer()
			case "pep440_local":
				san = PEP440LocalSanitizer()
			case "uint":
				san = UintSanitizer()
			case "key":
				san = KeySanitizer()
			default:
				return "", fmt.Errorf("unknown sanitize target %q", target)
			}
			cleaned, _ := san.Clean(value)
			return cleaned, nil
		},
		"shorthash": shortHash,
		"timestamp": func(pattern string, unix uint64) (string, error) {
			return formatTimestamp(pattern, unix)
		},
	}
}

func templateContext(z *Zerv) map[string]any {
	vars := &z.Vars
	ctx := map[string]any{}

	putUint := func(key string, p *uint64) {
		if p != nil {
			ctx[key] = *p
		}
	}
	putStr := func(key string, p *string) {
		if p != nil && *p != "" {
			ctx[key] = *p
		}
	}

	putUint("major", vars.Major)
	putUint("minor", vars.Minor)
	putUint("patch", vars.Patch)
	putUint("epoch", vars.Epoch)
	putUint("post", vars.Post)
	putUint("dev", vars.Dev)
	putUint("distance", vars.Distance)
	putUint("bumped_timestamp", vars.BumpedTimestamp)
	putUint("last_timestamp", vars.LastTimestamp)

	putStr("bumped_branch", vars.BumpedBranch)
	putStr("bumped_commit_hash", vars.BumpedCommitHash)
	putStr("last_branch", vars.LastBranch)
	putStr("last_commit_hash", vars.LastCommitHash)

	if vars.Dirty != nil {
		ctx["dirty"] = *vars.Dirty
	}
	if vars.BumpedCommitHash != nil {
		ctx["bumped_commit_hash_short"] = shortHash(*vars.BumpedCommitHash)
	}
	if vars.LastCommitHash != nil {
		ctx["last_commit_hash_short"] = shortHash(*vars.LastCommitHash)
	}
	if vars.Pre != nil {
		ctx["pre_release_label"] = string(vars.Pre.Label)
		if vars.Pre.Number != nil {
			ctx["pre_release_number"] = *vars.Pre.Number
		}
		if value, ok := V(VarPreRelease).Resolve(vars); ok {
			ctx["pre_release"] = value
		}
	}
	if len(vars.Custom) > 0 {
		ctx["custom"] = vars.Custom
	}

	if v, err := SemVerFromZerv(z, false); err == nil {
		ctx["semver"] = v.String()
	}
	if p, err := PEP440FromZerv(z, false); err == nil {
		ctx["pep440"] = p.String()
	}
	return ctx
}
