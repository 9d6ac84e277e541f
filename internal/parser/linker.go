package parser

import (
	"regexp"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// Linker diagnostics arrive as multi-line blocks. An undefined-symbol block:
//
//	Undefined symbols for architecture arm64:
//	  "_missing", referenced from:
//	      _main in main.o
//
// A duplicate-symbol block:
//
//	duplicate symbol '_count' in:
//	    /path/a.o
//	    /path/b.o
//	ld: 1 duplicate symbol for architecture arm64
var (
	undefinedHeaderPattern  = regexp.MustCompile(`^Undefined symbols for architecture (\S+):`)
	undefinedSymbolPattern  = regexp.MustCompile(`^\s+"(.+)", referenced from:$`)
	symbolReferencePattern  = regexp.MustCompile(`^\s+(\S.* in \S+)$`)
	duplicateHeaderPattern  = regexp.MustCompile(`^(?:ld: )?duplicate symbol '(.+)' in:$`)
	duplicateFilePattern    = regexp.MustCompile(`^\s+(\S+)$`)
	duplicateTrailerPattern = regexp.MustCompile(`^ld: \d+ duplicate symbols? for architecture (\S+)`)
)

// linkerBlockState tracks block progress explicitly instead of relying on
// lookahead.
type linkerBlockState int

const (
	awaitingSymbolLine linkerBlockState = iota
	awaitingReferenceLine
	collectingConflictFiles
	blockClosed
)

// linkerBlock accumulates one multi-line linker diagnostic. It is carried in
// ParseState while open; lines are offered to it before any other matching.
type linkerBlock struct {
	kind           m.LinkerErrorKind
	state          linkerBlockState
	architecture   string
	symbol         string
	referencedFrom string
	conflicts      []m.Path
	records        []m.LinkerError
}

// openLinkerBlock returns a new block when line is a linker block header.
func openLinkerBlock(line string) *linkerBlock {
	if groups := undefinedHeaderPattern.FindStringSubmatch(line); groups != nil {
		return &linkerBlock{
			kind:         m.LinkerUndefinedSymbol,
			state:        awaitingSymbolLine,
			architecture: groups[1],
		}
	}

	if groups := duplicateHeaderPattern.FindStringSubmatch(line); groups != nil {
		return &linkerBlock{
			kind:   m.LinkerDuplicateSymbol,
			state:  collectingConflictFiles,
			symbol: groups[1],
		}
	}

	return nil
}

// consume offers the next input line to the open block. It returns false when
// the line does not continue the block; the caller then closes the block and
// re-processes the line normally.
func (b *linkerBlock) consume(line string) bool {
	switch b.kind {
	case m.LinkerUndefinedSymbol:
		return b.consumeUndefined(line)
	case m.LinkerDuplicateSymbol:
		return b.consumeDuplicate(line)
	}

	return false
}

func (b *linkerBlock) consumeUndefined(line string) bool {
	if groups := undefinedSymbolPattern.FindStringSubmatch(line); groups != nil {
		// A new symbol entry closes the previous one.
		b.emitUndefined()
		b.symbol = groups[1]
		b.state = awaitingReferenceLine

		return true
	}

	if b.state == awaitingReferenceLine {
		if groups := symbolReferencePattern.FindStringSubmatch(line); groups != nil {
			if b.referencedFrom == "" {
				b.referencedFrom = groups[1]
			}

			return true
		}
	}

	return false
}

func (b *linkerBlock) consumeDuplicate(line string) bool {
	if b.state == blockClosed {
		return false
	}

	if groups := duplicateTrailerPattern.FindStringSubmatch(line); groups != nil {
		b.architecture = groups[1]
		b.state = blockClosed

		return true
	}

	if groups := duplicateFilePattern.FindStringSubmatch(line); groups != nil {
		b.conflicts = append(b.conflicts, m.Path(groups[1]))
		return true
	}

	return false
}

// close flushes the block, best-effort: records missing mandatory fields are
// dropped rather than emitted half-formed.
func (b *linkerBlock) close() []m.LinkerError {
	switch b.kind {
	case m.LinkerUndefinedSymbol:
		b.emitUndefined()
	case m.LinkerDuplicateSymbol:
		if b.symbol != "" && len(b.conflicts) >= 2 {
			b.records = append(b.records, m.LinkerError{
				Kind:             m.LinkerDuplicateSymbol,
				Symbol:           b.symbol,
				Architecture:     b.architecture,
				ConflictingFiles: b.conflicts,
			})
		}
	}

	return b.records
}

func (b *linkerBlock) emitUndefined() {
	if b.symbol == "" {
		return
	}

	b.records = append(b.records, m.LinkerError{
		Kind:           m.LinkerUndefinedSymbol,
		Symbol:         b.symbol,
		Architecture:   b.architecture,
		ReferencedFrom: b.referencedFrom,
	})
	b.symbol = ""
	b.referencedFrom = ""
}
