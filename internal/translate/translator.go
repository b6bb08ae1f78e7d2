// Package translate maps natural-language step descriptions to parsed
// actions. It is a collaborator of the planner core: the simulator itself
// never sees raw text.
//
// Matching is two-stage: exact lookup through synonym tables first, then a
// similarity-ratio fallback with a confidence cutoff.
package translate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aboobakr09/Speculative-Validation-for-LLM-Based-Task-Planning/internal/sim"
)

// ErrNoMatch is wrapped by every translation failure.
var ErrNoMatch = errors.New("no matching action")

// Method records how a translation was resolved, for diagnostics.
type Method string

const (
	MethodExact  Method = "exact"
	MethodFuzzy  Method = "fuzzy"
	MethodFailed Method = "failed"
)

// DefaultThreshold is the minimum similarity ratio for a fuzzy verb match.
const DefaultThreshold = 0.6

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "with": true,
	"on": true, "in": true, "at": true, "from": true, "please": true,
	"now": true,
}

var verbSynonyms = map[sim.ActionKind][]string{
	sim.ActionPickup: {"pick", "grab", "take", "get", "hold", "lift", "carry", "fetch"},
	sim.ActionGoto:   {"go", "move", "walk", "head", "navigate", "enter", "visit"},
	sim.ActionDrop:   {"put", "place", "set", "leave", "release", "deposit", "down"},
	sim.ActionToggle: {"turn", "switch", "flip", "activate", "deactivate", "on", "off"},
	sim.ActionUse:    {"apply", "utilize", "operate", "wash", "clean", "make", "brush", "scrub"},
}

var objectSynonyms = map[sim.ObjectID][]string{
	"cup":          {"mug", "glass", "drink"},
	"coffee_maker": {"coffeemaker", "espresso", "brewer"},
	"light":        {"lights", "bulb"},
	"lamp":         {"bedlamp", "nightlight"},
	"faucet":       {"tap", "sink", "water"},
	"remote":       {"controller", "control"},
	"toothbrush":   {"teeth", "tooth"},
}

// Translator converts step text into sim.ParsedAction against a fixed
// room/object vocabulary.
type Translator struct {
	threshold float64
	rooms     []string
	objects   []string
	verbSyn   map[string]sim.ActionKind
	objSyn    map[string]sim.ObjectID
}

// Option configures a Translator.
type Option func(*Translator)

// WithThreshold overrides the fuzzy-match confidence cutoff.
func WithThreshold(v float64) Option {
	return func(t *Translator) { t.threshold = v }
}

// WithVocabulary replaces the room and object vocabulary.
func WithVocabulary(rooms []sim.RoomID, objects []sim.ObjectID) Option {
	return func(t *Translator) {
		t.rooms = t.rooms[:0]
		for _, r := range rooms {
			t.rooms = append(t.rooms, string(r))
		}
		t.objects = t.objects[:0]
		for _, o := range objects {
			t.objects = append(t.objects, string(o))
		}
	}
}

// New builds a translator over the default layout vocabulary.
func New(opts ...Option) *Translator {
	t := &Translator{threshold: DefaultThreshold}
	for _, r := range sim.Rooms() {
		t.rooms = append(t.rooms, string(r))
	}
	for _, o := range sim.DefaultObjects() {
		t.objects = append(t.objects, string(o))
	}
	for _, opt := range opts {
		opt(t)
	}

	t.verbSyn = map[string]sim.ActionKind{}
	for verb, syns := range verbSynonyms {
		for _, syn := range syns {
			t.verbSyn[syn] = verb
		}
	}
	t.objSyn = map[string]sim.ObjectID{}
	for obj, syns := range objectSynonyms {
		for _, syn := range syns {
			t.objSyn[syn] = obj
		}
	}
	return t
}

// Translate maps raw step text to a parsed action.
func (t *Translator) Translate(raw string) (sim.ParsedAction, error) {
	a, _, err := t.TranslateDetailed(raw)
	return a, err
}

// TranslateDetailed also reports how the match was resolved.
func (t *Translator) TranslateDetailed(raw string) (sim.ParsedAction, Method, error) {
	cleaned := cleanInput(raw)
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return sim.ParsedAction{}, MethodFailed, fmt.Errorf("%w: empty step %q", ErrNoMatch, raw)
	}

	// Exact verb (canonical or synonym) in first position.
	if verb, ok := t.canonicalVerb(words[0]); ok {
		if arg, ok := t.extractArgument(words[1:], verb); ok {
			return sim.ParsedAction{Verb: verb, Arg: arg}, MethodExact, nil
		}
	}

	// Fuzzy verb in first position.
	if verb, ratio := t.matchVerbFuzzy(words[0]); ratio >= t.threshold {
		if arg, ok := t.extractArgument(words[1:], verb); ok {
			return sim.ParsedAction{Verb: verb, Arg: arg}, MethodFuzzy, nil
		}
	}

	// Verb anywhere in the sentence ("turn on the faucet").
	for i := 1; i < len(words); i++ {
		verb, ratio := t.matchVerbFuzzy(words[i])
		if ratio < t.threshold {
			continue
		}
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		if arg, ok := t.extractArgument(rest, verb); ok {
			return sim.ParsedAction{Verb: verb, Arg: arg}, MethodFuzzy, nil
		}
	}

	return sim.ParsedAction{}, MethodFailed, fmt.Errorf("%w: %q", ErrNoMatch, raw)
}

func cleanInput(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var kept []string
	for _, w := range strings.Fields(raw) {
		w = strings.Trim(w, `.,!?"'`)
		if w == "" || fillerWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func (t *Translator) canonicalVerb(word string) (sim.ActionKind, bool) {
	for _, kind := range sim.ActionKinds() {
		if word == string(kind) {
			return kind, true
		}
	}
	if verb, ok := t.verbSyn[word]; ok {
		return verb, true
	}
	return "", false
}

func (t *Translator) matchVerbFuzzy(word string) (sim.ActionKind, float64) {
	bestRatio := 0.0
	var best sim.ActionKind
	consider := func(candidate string, verb sim.ActionKind) {
		if r := similarity(word, candidate); r > bestRatio {
			bestRatio = r
			best = verb
		}
	}
	for _, kind := range sim.ActionKinds() {
		consider(string(kind), kind)
	}
	for syn, verb := range t.verbSyn {
		consider(syn, verb)
	}
	return best, bestRatio
}

// extractArgument resolves the target identifier from the remaining words.
// goto takes rooms; everything else takes objects.
func (t *Translator) extractArgument(words []string, verb sim.ActionKind) (string, bool) {
	if len(words) == 0 {
		return "", false
	}
	targets := t.objects
	if verb == sim.ActionGoto {
		targets = t.rooms
	}

	// Joined words handle compound names: "living room" -> "living_room".
	joined := strings.Trim(strings.Join(words, "_"), "_")
	if containsString(targets, joined) {
		return joined, true
	}
	if verb != sim.ActionGoto {
		if obj, ok := t.objSyn[joined]; ok && containsString(t.objects, string(obj)) {
			return string(obj), true
		}
	}

	for _, w := range words {
		if containsString(targets, w) {
			return w, true
		}
		if verb != sim.ActionGoto {
			if obj, ok := t.objSyn[w]; ok && containsString(t.objects, string(obj)) {
				return string(obj), true
			}
		}
	}

	// Fuzzy fallback over targets plus object synonyms.
	candidates := append([]string{}, targets...)
	if verb != sim.ActionGoto {
		for syn := range t.objSyn {
			candidates = append(candidates, syn)
		}
	}
	if match, ratio := bestMatch(joined, candidates); ratio >= t.threshold {
		return t.resolveTarget(match, targets), true
	}
	for _, w := range words {
		if match, ratio := bestMatch(w, candidates); ratio >= t.threshold {
			return t.resolveTarget(match, targets), true
		}
	}
	return "", false
}

func (t *Translator) resolveTarget(match string, targets []string) string {
	if containsString(targets, match) {
		return match
	}
	if obj, ok := t.objSyn[match]; ok {
		return string(obj)
	}
	return match
}

func bestMatch(word string, candidates []string) (string, float64) {
	best := ""
	bestRatio := 0.0
	for _, c := range candidates {
		if r := similarity(word, c); r > bestRatio {
			bestRatio = r
			best = c
		}
	}
	return best, bestRatio
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// similarity is a normalized edit-distance ratio in [0,1]:
// 1 - dist/max(len). Both inputs are expected lowercase.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(prev[lb])/float64(maxLen)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
