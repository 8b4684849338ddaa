package scraperdriver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DeduplicationKey returns r's effective dedup key: the explicit string if
// r.DeduplicationKey holds one, "" with skip=true if it holds Skip, or the
// computed default key per SPEC_FULL.md §4.2.
func DeduplicationKey(r *Request) (key string, skip bool) {
	switch k := r.DeduplicationKey.(type) {
	case dedupSkip:
		return "", true
	case string:
		return k, false
	default:
		return defaultDedupKey(r), false
	}
}

// defaultDedupKey computes SHA-256 hex of method|url+sorted-query|sorted-body.
// warccache.Interceptor looks records up by DeduplicationKey itself, so the
// replay key and the dedup key stay aligned (see DESIGN.md OQ1).
func defaultDedupKey(r *Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s%s|", strings.ToUpper(string(r.HTTPParams.Method)), r.HTTPParams.URL, sortedQueryString(r.HTTPParams.Query))
	h.Write(bodyBytes(r.HTTPParams))
	return hex.EncodeToString(h.Sum(nil))
}

func sortedQueryString(q [][2]string) string {
	if len(q) == 0 {
		return ""
	}
	pairs := append([][2]string(nil), q...)
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	var b strings.Builder
	b.WriteByte('?')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(p[1])
	}
	return b.String()
}

// bodyBytes canonicalizes HTTPParams' body for hashing: a form mapping is
// sorted by key; raw bytes/strings are used as-is; anything else is
// JSON-marshaled with sorted keys (encoding/json already sorts map keys).
func bodyBytes(p HTTPParams) []byte {
	if len(p.Form) > 0 {
		keys := make([]string, 0, len(p.Form))
		for k := range p.Form {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(p.Form[k])
			b.WriteByte('&')
		}
		return []byte(b.String())
	}
	switch v := p.Body.(type) {
	case nil:
		return nil
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return []byte(fmt.Sprintf("%v", v))
		}
		return b
	}
}
