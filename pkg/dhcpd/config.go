package dhcpd

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"poolstat/pkg/analysis"
	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// ParseConfig reads a dhcpd.conf style file and appends its ranges and
// shared networks to the audit.  Ranges bind to the innermost
// shared-network declaration, or to the "All networks" root when they
// stand alone; with allAsShared, stand-alone subnets become their own
// shared network named after their CIDR.
func ParseConfig(audit *analysis.Audit, path string, allAsShared bool) error {
	p := &confParser{audit: audit, allAsShared: allAsShared}
	return p.parseFile(path, audit.Networks.Root())
}

type confParser struct {
	audit       *analysis.Audit
	allAsShared bool
}

func (p *confParser) parseFile(path string, enclosing *model.SharedNetwork) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	defer f.Close()

	tokens, err := tokenize(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return p.parse(tokens, path, enclosing)
}

func (p *confParser) parse(tokens []string, path string, enclosing *model.SharedNetwork) error {
	root := p.audit.Networks.Root()
	sharedNet := enclosing
	var subnetNet *model.SharedNetwork
	depth := 0
	sharedDepth := 0
	subnetDepth := 0

	// binding resolves which network owns a range declared at the
	// current position.
	binding := func() *model.SharedNetwork {
		if sharedNet != root {
			return sharedNet
		}
		if subnetNet != nil {
			return subnetNet
		}
		return root
	}

	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case "{":
			depth++
		case "}":
			depth--
			if sharedNet != enclosing && depth < sharedDepth {
				sharedNet = enclosing
			}
			if subnetNet != nil && depth < subnetDepth {
				subnetNet = nil
			}
		case "shared-network":
			if i+1 >= len(tokens) {
				return fmt.Errorf("%s: shared-network without a name", path)
			}
			i++
			sharedNet = p.audit.Networks.FindOrCreate(tokens[i])
			sharedDepth = depth + 1
		case "subnet":
			// subnet ADDRESS netmask MASK { ... }
			if i+3 >= len(tokens) || tokens[i+2] != "netmask" {
				return fmt.Errorf("%s: malformed subnet declaration", path)
			}
			base := tokens[i+1]
			maskBits, err := netmaskBits(tokens[i+3])
			if err != nil {
				return fmt.Errorf("%s: subnet %s: %w", path, base, err)
			}
			i += 3
			if err := p.audit.EnsureFamily(ipaddr.V4); err != nil {
				return fmt.Errorf("%s: subnet %s: %w", path, base, err)
			}
			if sharedNet != root {
				sharedNet.Netmask = maskBits
			} else if p.allAsShared {
				subnetNet = p.audit.Networks.FindOrCreate(base + "/" + strconv.Itoa(maskBits))
				subnetNet.Netmask = maskBits
				subnetDepth = depth + 1
			}
		case "subnet6":
			// subnet6 CIDR { ... }
			if i+1 >= len(tokens) {
				return fmt.Errorf("%s: malformed subnet6 declaration", path)
			}
			i++
			cidr := tokens[i]
			maskBits, err := cidrBits(cidr, 128)
			if err != nil {
				return fmt.Errorf("%s: subnet6 %s: %w", path, cidr, err)
			}
			if err := p.audit.EnsureFamily(ipaddr.V6); err != nil {
				return fmt.Errorf("%s: subnet6 %s: %w", path, cidr, err)
			}
			if sharedNet != root {
				sharedNet.Netmask = maskBits
			} else if p.allAsShared {
				subnetNet = p.audit.Networks.FindOrCreate(cidr)
				subnetNet.Netmask = maskBits
				subnetDepth = depth + 1
			}
		case "range":
			n, err := p.parseRange(tokens[i+1:], ipaddr.V4, binding())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			i += n
		case "range6":
			n, err := p.parseRange(tokens[i+1:], ipaddr.V6, binding())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			i += n
		case "include":
			if i+1 >= len(tokens) {
				return fmt.Errorf("%s: include without a file name", path)
			}
			i++
			if err := p.parseFile(tokens[i], sharedNet); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseRange consumes the arguments of a range or range6 statement and
// appends the resulting range.  It returns the number of tokens eaten.
// A statement carries one or two addresses; a single address means a
// one-address range, and range6 also accepts prefix notation.
func (p *confParser) parseRange(rest []string, fam ipaddr.Family, owner *model.SharedNetwork) (int, error) {
	if err := p.audit.EnsureFamily(fam); err != nil {
		return 0, err
	}
	n := 0
	// dynamic-bootp ranges count like any other.
	if n < len(rest) && rest[n] == "dynamic-bootp" {
		n++
	}
	var words []string
	for ; n < len(rest) && rest[n] != ";"; n++ {
		words = append(words, rest[n])
	}
	n++ // the terminating semicolon
	if len(words) == 0 || len(words) > 2 {
		return n, fmt.Errorf("malformed range statement")
	}

	var first, last netip.Addr
	var err error
	if strings.Contains(words[0], "/") {
		// range6 2001:db8::/64 form.
		base, bitsStr, _ := strings.Cut(words[0], "/")
		first, err = p.audit.Family.Parse(base)
		if err != nil {
			return n, err
		}
		maskBits, err := parseMaskBits(bitsStr, 128)
		if err != nil {
			return n, fmt.Errorf("cidr %s: %w", words[0], err)
		}
		last, err = p.audit.Family.CIDRLast(first, maskBits)
		if err != nil {
			return n, err
		}
	} else {
		first, err = p.audit.Family.Parse(words[0])
		if err != nil {
			return n, err
		}
		last = first
		if len(words) == 2 {
			last, err = p.audit.Family.Parse(words[1])
			if err != nil {
				return n, err
			}
		}
	}
	if p.audit.Family.Compare(last, first) < 0 {
		return n, fmt.Errorf("%w: %s before %s",
			model.ErrInvalidRange, p.audit.Family.String(last), p.audit.Family.String(first))
	}
	p.audit.AddRange(&model.Range{First: first, Last: last, SharedNet: owner})
	return n, nil
}

// netmaskBits converts a dotted-quad netmask into a prefix length,
// rejecting non-contiguous masks.
func netmaskBits(mask string) (int, error) {
	addr, err := netip.ParseAddr(mask)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidMask, mask)
	}
	b := addr.As4()
	m := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	ones := bits.OnesCount32(m)
	if ones > 0 && m != ^uint32(0)<<(32-ones) {
		return 0, fmt.Errorf("%w: %q is not contiguous", model.ErrInvalidMask, mask)
	}
	return ones, nil
}

// cidrBits extracts and validates the prefix length of a CIDR string.
func cidrBits(cidr string, max int) (int, error) {
	_, bitsStr, ok := strings.Cut(cidr, "/")
	if !ok {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidMask, cidr)
	}
	return parseMaskBits(bitsStr, max)
}

func parseMaskBits(s string, max int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || max < n {
		return 0, fmt.Errorf("%w: /%s", model.ErrInvalidMask, s)
	}
	return n, nil
}

// tokenize splits the configuration into words, keeping quoted strings
// whole (without their quotes) and treating braces and semicolons as
// their own tokens.  Comments run from # to end of line.
func tokenize(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		var word strings.Builder
		inQuote := false
		flush := func() {
			if word.Len() > 0 {
				tokens = append(tokens, word.String())
				word.Reset()
			}
		}
		for _, c := range line {
			switch {
			case inQuote:
				if c == '"' {
					inQuote = false
					tokens = append(tokens, word.String())
					word.Reset()
				} else {
					word.WriteRune(c)
				}
			case c == '"':
				flush()
				inQuote = true
			case c == '#':
				goto lineDone
			case c == '{' || c == '}' || c == ';':
				flush()
				tokens = append(tokens, string(c))
			case c == ' ' || c == '\t':
				flush()
			default:
				word.WriteRune(c)
			}
		}
	lineDone:
		flush()
	}
	return tokens, scanner.Err()
}
