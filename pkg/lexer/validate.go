package lexer

import (
	"fmt"

	"go.uber.org/multierr"
)

// validate checks the bookkeeping of every list. Callers hold the write lock.
func (h *Hierarchy) validate() error {
	var err error
	root := h.root
	err = multierr.Append(err, validateStore(root.path.Key(), root.ts))
	if root.ts.complete && root.ts.end() != h.text.Len() {
		err = multierr.Append(err, fmt.Errorf("%s: tokens end at %d, text length is %d",
			root.path.Key(), root.ts.end(), h.text.Len()))
	}
	err = multierr.Append(err, validateHosted(root))

	for key, t := range h.tlls {
		err = multierr.Append(err, validateTLL(key, t))
	}
	return err
}

// validateStore checks the offsets and lengths of one store.
func validateStore(name string, st *tokenStore) error {
	var err error
	if st.gapIndex < 0 || st.gapIndex > st.count() {
		err = multierr.Append(err, fmt.Errorf("%s: offset gap index %d outside [0, %d]", name, st.gapIndex, st.count()))
	}
	if st.entries.Len() != st.lastates.Len() {
		err = multierr.Append(err, fmt.Errorf("%s: %d entries but %d lookahead states",
			name, st.entries.Len(), st.lastates.Len()))
	}
	next := 0
	for i, e := range st.entries.All() {
		if e.dead {
			err = multierr.Append(err, fmt.Errorf("%s: token %d is marked dead", name, i))
		}
		if e.tok.length <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s: token %d has length %d", name, i, e.tok.length))
		}
		if off := st.offset(i); off != next {
			err = multierr.Append(err, fmt.Errorf("%s: token %d at %d, expected %d", name, i, off, next))
		}
		if la := st.laState(i).Lookahead; la < 0 || la > st.maxLookahead {
			err = multierr.Append(err, fmt.Errorf("%s: token %d lookahead %d outside [0, %d]", name, i, la, st.maxLookahead))
		}
		next = st.offset(i) + e.tok.length
	}
	return err
}

// validateHosted checks the embedded lists hosted by the tokens of l.
func validateHosted(l hostList) error {
	var err error
	st := l.store()
	for i := range st.count() {
		e := st.at(i)
		seen := make(map[string]bool, len(e.embs))
		for _, etl := range e.embs {
			name := etl.path.Key()
			switch {
			case seen[name]:
				err = multierr.Append(err, fmt.Errorf("%s: token %d hosts %s twice", l.Path().Key(), i, name))
			case etl.removed:
				err = multierr.Append(err, fmt.Errorf("%s: token %d hosts removed list", l.Path().Key(), i))
			case etl.host != e:
				err = multierr.Append(err, fmt.Errorf("%s: host of list at token %d is stale", name, i))
			case e.tok.kind != KindPlain:
				err = multierr.Append(err, fmt.Errorf("%s: hosted by %s token %d", name, e.tok.kind, i))
			case e.tok.flyweight:
				err = multierr.Append(err, fmt.Errorf("%s: hosted by flyweight token %d", name, i))
			}
			seen[name] = true
			if etl.removed || etl.host != e {
				continue
			}
			err = multierr.Append(err, validateEmbedded(etl))
		}
	}
	return err
}

func validateEmbedded(etl *EmbeddedList) error {
	name := etl.String()
	err := validateStore(name, etl.ts)
	if etl.ts.complete {
		if etl.ts.end() != etl.contentLength() {
			err = multierr.Append(err, fmt.Errorf("%s: tokens end at %d, content length is %d",
				name, etl.ts.end(), etl.contentLength()))
		}
		if etl.length != etl.contentLength() {
			err = multierr.Append(err, fmt.Errorf("%s: lexed for length %d, content length is %d",
				name, etl.length, etl.contentLength()))
		}
	}
	return multierr.Append(err, validateHosted(etl))
}

func validateTLL(key string, t *tokenListList) error {
	var err error
	for i, etl := range t.lists {
		switch {
		case etl.removed:
			err = multierr.Append(err, fmt.Errorf("%s: list %d was removed", key, i))
			continue
		case etl.tll != t:
			err = multierr.Append(err, fmt.Errorf("%s: list %d belongs to another token list list", key, i))
		case etl.path.Key() != key:
			err = multierr.Append(err, fmt.Errorf("%s: list %d has path %s", key, i, etl.path.Key()))
		}
		if i > 0 && !t.lists[i-1].removed && t.lists[i-1].hostOffset() > etl.hostOffset() {
			err = multierr.Append(err, fmt.Errorf("%s: list %d out of document order", key, i))
		}
	}
	if len(t.pendingAdded) > 0 || len(t.pendingRemoved) > 0 {
		err = multierr.Append(err, fmt.Errorf("%s: uncommitted list changes", key))
	}
	if t.join != nil {
		err = multierr.Append(err, validateJoin(t.join))
	}
	return err
}

// validateJoin checks that the logical tokens cover the joined text and that
// their parts are the tokens of the sections.
func validateJoin(j *JoinList) error {
	name := j.path.Key() + " (joined)"
	err := validateStore(name, j.ts)
	size := 0
	for _, etl := range j.tll.lists {
		size += etl.contentLength()
	}
	if j.ts.end() != size {
		err = multierr.Append(err, fmt.Errorf("%s: tokens end at %d, joined length is %d", name, j.ts.end(), size))
	}

	var want []*entry
	for i := range j.ts.count() {
		e := j.ts.at(i)
		if len(e.parts) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s: token %d has no section entries", name, i))
			continue
		}
		if len(e.parts) > 1 && (e.tok.kind != KindJoin || len(e.tok.parts) != len(e.parts)) {
			err = multierr.Append(err, fmt.Errorf("%s: token %d spans %d sections but is %s", name, i, len(e.parts), e.tok))
		}
		for _, p := range e.parts {
			want = append(want, p.e)
		}
	}

	var got []*entry
	for _, etl := range j.tll.lists {
		for i := range etl.ts.count() {
			got = append(got, etl.ts.at(i))
		}
	}
	if len(got) != len(want) {
		return multierr.Append(err, fmt.Errorf("%s: %d logical parts but %d section tokens", name, len(want), len(got)))
	}
	for i := range got {
		if got[i] != want[i] {
			err = multierr.Append(err, fmt.Errorf("%s: section token %d is not backed by the logical list", name, i))
			break
		}
	}
	return err
}
