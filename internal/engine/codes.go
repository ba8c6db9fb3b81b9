package engine

import (
	"strings"

	"construction-analytics/internal/model"
)

// codeSeparators are the characters accepted between a base code and a
// sub-code. "-" is the canonical join separator.
const codeSeparators = "-_/. "

func isSeparator(b byte) bool {
	return strings.IndexByte(codeSeparators, b) >= 0
}

// CanonicalFullCode builds the canonical project identifier from a base
// code and an optional sub-code. The sub-code is kept as-is when it
// already repeats the base code, appended directly when it starts with a
// separator, and joined with "-" otherwise.
func CanonicalFullCode(code, subCode string) string {
	code = strings.TrimSpace(code)
	subCode = strings.TrimSpace(subCode)
	if subCode == "" {
		return code
	}
	if code == "" {
		return subCode
	}
	if strings.HasPrefix(strings.ToUpper(subCode), strings.ToUpper(code)) {
		return subCode
	}
	if isSeparator(subCode[0]) {
		return code + subCode
	}
	return code + "-" + subCode
}

// CodeRef holds the identifier material carried by a single record. Any
// field may be empty; records are entered inconsistently and some predate
// sub-code adoption entirely.
type CodeRef struct {
	FullCode string
	Code     string
	SubCode  string
}

// ExtractCodes collects every plausible code representation from a record:
// the explicit full code, the base code, and the canonical combination of
// base and sub-code. Each candidate is retained in both its original and
// upper-cased form, de-duplicated, in extraction order. An empty result
// means the record cannot be attributed to any project.
func ExtractCodes(ref CodeRef) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, v := range []string{s, strings.ToUpper(s)} {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	add(ref.FullCode)
	add(ref.Code)
	if strings.TrimSpace(ref.Code) != "" && strings.TrimSpace(ref.SubCode) != "" {
		add(CanonicalFullCode(ref.Code, ref.SubCode))
	}
	return out
}

// ActivityCodes extracts the candidate code set from an activity.
func ActivityCodes(a *model.Activity) []string {
	return ExtractCodes(CodeRef{FullCode: a.ProjectFullCode, Code: a.ProjectCode})
}

// KPICodes extracts the candidate code set from a KPI record.
func KPICodes(k *model.KPIRecord) []string {
	return ExtractCodes(CodeRef{FullCode: k.ProjectFullCode, Code: k.ProjectCode})
}

// ProjectKey is the pre-computed identity of a project used for matching.
// All comparisons happen on the upper-cased fields.
type ProjectKey struct {
	Code     string
	SubCode  string
	FullCode string

	upperCode string
	upperFull string
}

// NewProjectKey derives the matching key for a project identity.
func NewProjectKey(code, subCode string) ProjectKey {
	code = strings.TrimSpace(code)
	subCode = strings.TrimSpace(subCode)
	full := CanonicalFullCode(code, subCode)
	return ProjectKey{
		Code:      code,
		SubCode:   subCode,
		FullCode:  full,
		upperCode: strings.ToUpper(code),
		upperFull: strings.ToUpper(full),
	}
}

// splitLastSeparator splits a candidate on its last separator character
// into base and sub parts. Candidates without a separator have an empty
// sub part.
func splitLastSeparator(s string) (base, sub string) {
	idx := strings.LastIndexAny(s, codeSeparators)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}

// hasSubCodeBeyondBase reports whether any candidate carries a sub-code
// part beyond the given base code. Records whose identifiers name an
// explicit sub-code must not fall back to base-only legacy matching: a
// record stamped "P100-B" is not a legacy record for project "P100-A".
func hasSubCodeBeyondBase(candidates []string, upperBase string) bool {
	if upperBase == "" {
		return false
	}
	for _, c := range candidates {
		cu := strings.ToUpper(strings.TrimSpace(c))
		if !strings.HasPrefix(cu, upperBase) || len(cu) == len(upperBase) {
			continue
		}
		rest := cu[len(upperBase):]
		for len(rest) > 0 && isSeparator(rest[0]) {
			rest = rest[1:]
		}
		if rest != "" {
			return true
		}
	}
	return false
}

// MatchesProject decides whether a candidate code set refers to the given
// project. A candidate matches when it equals the project's full code,
// when it is a legacy base-only identifier for a project that has since
// adopted a sub-code, when its own rebuilt full code equals the project's,
// or when it equals the base code of a project without a sub-code.
func MatchesProject(candidates []string, key ProjectKey) bool {
	if len(candidates) == 0 || key.upperFull == "" {
		return false
	}
	hasSub := key.SubCode != ""
	legacyOK := !hasSubCodeBeyondBase(candidates, key.upperCode)

	for _, c := range candidates {
		cu := strings.ToUpper(strings.TrimSpace(c))
		if cu == "" {
			continue
		}
		if cu == key.upperFull {
			return true
		}
		if hasSub {
			if legacyOK && cu == key.upperCode {
				return true
			}
			base, sub := splitLastSeparator(cu)
			if sub != "" && strings.ToUpper(CanonicalFullCode(base, sub)) == key.upperFull {
				return true
			}
		} else if cu == key.upperCode {
			return true
		}
	}
	return false
}
