// Package chem provides SMILES parsing and Morgan-type circular
// fingerprint generation for molecular similarity search.
//
// The parser covers the SMILES subset needed for fingerprinting: organic
// subset atoms, aromatic lowercase atoms, bracket atoms, branches, ring
// closures and dot-separated fragments. Bond orders are recorded only as
// connectivity; the fingerprint hashes atom environments, not bond types.
package chem

import (
	"strconv"
	"strings"
)

// Atom is a single heavy atom parsed from a SMILES string.
type Atom struct {
	Symbol   string
	Aromatic bool
}

// Mol is a molecular graph: atoms plus a symmetric adjacency list.
type Mol struct {
	Atoms []Atom
	// Bonds[i] lists the indices of atoms bonded to atom i, in the order
	// the bonds appear in the SMILES string.
	Bonds [][]int
}

// NumAtoms returns the number of heavy atoms in the molecule.
func (m *Mol) NumAtoms() int {
	return len(m.Atoms)
}

// Degree returns the number of explicit bonds of atom i.
func (m *Mol) Degree(i int) int {
	return len(m.Bonds[i])
}

// twoLetterElements lists multi-character element symbols the tokenizer
// recognizes outside and inside brackets.
var twoLetterElements = map[string]bool{
	"Cl": true, "Br": true, "Si": true, "Se": true, "As": true,
	"Na": true, "Ca": true, "Li": true, "Mg": true, "Al": true,
	"Zn": true, "Fe": true, "Cu": true, "Mn": true, "Co": true,
	"Ni": true, "Sn": true, "Ag": true, "Au": true, "Pt": true,
	"Pd": true, "Hg": true, "Pb": true, "Cr": true, "Ti": true,
	"Ba": true, "Sr": true, "Cd": true, "Mo": true, "Sb": true,
	"Bi": true, "Te": true, "Ge": true, "Ga": true,
}

// organicSubset lists atoms that may appear bare, without brackets.
var organicSubset = map[byte]bool{
	'B': true, 'C': true, 'N': true, 'O': true, 'P': true,
	'S': true, 'F': true, 'I': true,
}

// aromaticSubset lists lowercase aromatic atoms allowed outside brackets.
var aromaticSubset = map[byte]bool{
	'b': true, 'c': true, 'n': true, 'o': true, 'p': true, 's': true,
}

type parseError struct {
	pos int
	msg string
}

func (e *parseError) Error() string {
	return "chem: invalid SMILES at position " + strconv.Itoa(e.pos) + ": " + e.msg
}

// ParseSMILES parses a SMILES string into a molecular graph. It returns an
// error for empty input, unknown tokens, unbalanced brackets or branches,
// and unclosed ring bonds. Callers that need the zero-fingerprint fallback
// policy should use Generator.Fingerprint instead of handling the error.
func ParseSMILES(smiles string) (*Mol, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return nil, &parseError{0, "empty SMILES"}
	}

	mol := &Mol{}
	prev := -1           // last atom on the current chain, -1 after '.'
	var branches []int   // atoms to return to at ')'
	rings := map[int]int{} // ring closure number -> atom awaiting its partner

	addAtom := func(symbol string, aromatic bool) {
		mol.Atoms = append(mol.Atoms, Atom{Symbol: symbol, Aromatic: aromatic})
		mol.Bonds = append(mol.Bonds, nil)
		idx := len(mol.Atoms) - 1
		if prev >= 0 {
			mol.Bonds[prev] = append(mol.Bonds[prev], idx)
			mol.Bonds[idx] = append(mol.Bonds[idx], prev)
		}
		prev = idx
	}

	closeRing := func(num, pos int) error {
		if prev < 0 {
			return &parseError{pos, "ring closure before any atom"}
		}
		if open, ok := rings[num]; ok {
			if open == prev {
				return &parseError{pos, "ring bond to the same atom"}
			}
			mol.Bonds[open] = append(mol.Bonds[open], prev)
			mol.Bonds[prev] = append(mol.Bonds[prev], open)
			delete(rings, num)
			return nil
		}
		rings[num] = prev
		return nil
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			if i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' && twoLetterElements[s[i:i+2]] {
				addAtom(s[i:i+2], false)
				i += 2
				continue
			}
			if !organicSubset[c] {
				return nil, &parseError{i, "atom " + string(c) + " requires brackets"}
			}
			addAtom(string(c), false)
			i++

		case c >= 'a' && c <= 'z':
			if !aromaticSubset[c] {
				return nil, &parseError{i, "unknown aromatic atom " + string(c)}
			}
			addAtom(strings.ToUpper(string(c)), true)
			i++

		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, &parseError{i, "unterminated bracket atom"}
			}
			symbol, aromatic, err := parseBracketAtom(s[i+1:i+end], i)
			if err != nil {
				return nil, err
			}
			addAtom(symbol, aromatic)
			i += end + 1

		case c >= '0' && c <= '9':
			if err := closeRing(int(c-'0'), i); err != nil {
				return nil, err
			}
			i++

		case c == '%':
			if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
				return nil, &parseError{i, "'%' must be followed by two digits"}
			}
			num := int(s[i+1]-'0')*10 + int(s[i+2]-'0')
			if err := closeRing(num, i); err != nil {
				return nil, err
			}
			i += 3

		case c == '(':
			if prev < 0 {
				return nil, &parseError{i, "branch before any atom"}
			}
			branches = append(branches, prev)
			i++

		case c == ')':
			if len(branches) == 0 {
				return nil, &parseError{i, "unmatched ')'"}
			}
			prev = branches[len(branches)-1]
			branches = branches[:len(branches)-1]
			i++

		case c == '-' || c == '=' || c == '#' || c == '$' || c == ':' || c == '/' || c == '\\':
			// Bond orders and stereo marks are connectivity-neutral here.
			i++

		case c == '.':
			prev = -1
			i++

		case c == '*':
			addAtom("*", false)
			i++

		default:
			return nil, &parseError{i, "unexpected character " + string(c)}
		}
	}

	if len(branches) != 0 {
		return nil, &parseError{len(s), "unclosed branch"}
	}
	if len(rings) != 0 {
		return nil, &parseError{len(s), "unclosed ring bond"}
	}
	if len(mol.Atoms) == 0 {
		return nil, &parseError{0, "no atoms"}
	}
	return mol, nil
}

// parseBracketAtom interprets the content between '[' and ']': an optional
// isotope, the element symbol, and optional hydrogen count, charge,
// chirality and atom-map annotations, which are validated but discarded.
func parseBracketAtom(body string, pos int) (symbol string, aromatic bool, err error) {
	if body == "" {
		return "", false, &parseError{pos, "empty bracket atom"}
	}
	j := 0
	for j < len(body) && isDigit(body[j]) { // isotope
		j++
	}
	if j >= len(body) {
		return "", false, &parseError{pos, "bracket atom without element"}
	}

	c := body[j]
	switch {
	case c >= 'A' && c <= 'Z':
		if j+1 < len(body) && body[j+1] >= 'a' && body[j+1] <= 'z' && twoLetterElements[body[j:j+2]] {
			symbol = body[j : j+2]
			j += 2
		} else {
			symbol = string(c)
			j++
		}
	case aromaticSubset[c]:
		symbol = strings.ToUpper(string(c))
		aromatic = true
		j++
	case c == '*':
		symbol = "*"
		j++
	default:
		return "", false, &parseError{pos, "invalid bracket element " + string(c)}
	}

	for j < len(body) {
		switch b := body[j]; {
		case b == 'H' || b == '+' || b == '-' || b == '@' || b == ':' || isDigit(b):
			j++
		default:
			return "", false, &parseError{pos, "invalid bracket annotation " + string(b)}
		}
	}
	return symbol, aromatic, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
