package libinjection

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

/*
 * Policy bundles the word table and fingerprint blacklist a detector runs
 * with. The zero value is not usable; construct with DefaultPolicy or
 * PolicyFromYAML. A Policy is immutable after construction and safe for
 * concurrent use.
 */
type Policy struct {
	words map[string]byte
}

var default_policy = &Policy{words: sql_keywords}

/*
 * DefaultPolicy returns the shared policy backed by the built-in tables.
 */
func DefaultPolicy() *Policy {
	return default_policy
}

/*
 * policy_doc is the YAML schema for table overrides:
 *
 *	keywords:
 *	  GET_LOCK: f
 *	  PG_READ_FILE: f
 *	fingerprints:
 *	  - s&sof(
 *
 * Keyword values are single-character token type codes. Entries extend
 * the built-in tables; an entry with the same name replaces the built-in
 * one.
 */
type policy_doc struct {
	Keywords     map[string]string `yaml:"keywords"`
	Fingerprints []string          `yaml:"fingerprints"`
}

func PolicyFromYAML(data []byte) (*Policy, error) {
	var doc policy_doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}

	words := make(map[string]byte, len(sql_keywords)+len(doc.Keywords)+len(doc.Fingerprints))
	for k, v := range sql_keywords {
		words[k] = v
	}
	for name, code := range doc.Keywords {
		if len(code) != 1 {
			return nil, fmt.Errorf("keyword %q: token type must be a single character, got %q", name, code)
		}
		words[strings.ToUpper(name)] = code[0]
	}
	for _, fp := range doc.Fingerprints {
		if len(fp) == 0 || len(fp) > SQLI_MAX_TOKENS {
			return nil, fmt.Errorf("fingerprint %q: length must be 1 to %d", fp, SQLI_MAX_TOKENS)
		}
		words[strings.ToUpper(fp)] = TYPE_FINGERPRINT
	}
	return &Policy{words: words}, nil
}

/*
 * IsSqli reports whether the input looks like SQL injection under this
 * policy. The fingerprint is populated whenever tokenization succeeds,
 * regardless of verdict, so callers can log and tune.
 */
func (p *Policy) IsSqli(input []byte) (Result, string) {
	return detect_sqli(string(input), p.words)
}

/*
 * IsXss reports whether the input looks like XSS in any of the supported
 * injection contexts under this policy.
 */
func (p *Policy) IsXss(input []byte) Result {
	return detect_xss(string(input), p.words)
}
