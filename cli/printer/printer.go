package printer

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/tonkit/tonkit/core/types"
	"github.com/xssnick/tonutils-go/address"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NanoPerTon is the number of nanotons in one ton.
const NanoPerTon = 1_000_000_000

// Accountable is anything with an on-chain account the printer can describe.
type Accountable interface {
	Name() string
	Address(ctx context.Context) (*address.Address, error)
	Balance(ctx context.Context) (string, error)
	AccountType(ctx context.Context) (types.AccountType, error)
}

type Printer struct {
	out io.Writer
	fmt *message.Printer
}

// New creates a printer formatting numbers for locale (a BCP 47 tag, "en" if empty or invalid).
func New(out io.Writer, locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Printer{out: out, fmt: message.NewPrinter(tag)}
}

func (p *Printer) Print(parts ...string) {
	fmt.Fprintln(p.out, strings.Join(parts, ""))
}

func (p *Printer) Network(url string) {
	p.Print(Gray(url))
	p.Print()
}

func (p *Printer) Account(ctx context.Context, c Accountable) error {
	addr, err := c.Address(ctx)
	if err != nil {
		return err
	}
	balance, err := c.Balance(ctx)
	if err != nil {
		return err
	}
	accType, err := c.AccountType(ctx)
	if err != nil {
		return err
	}
	formatted, err := p.FormatBalance(balance)
	if err != nil {
		return err
	}

	p.Print(Gray(c.Name()))
	p.Print(White(addr.StringRaw()), "   ", AccountTypeColor(accType)("%s   %s", formatted, accType))
	p.Print()
	return nil
}

// FormatBalance renders a hex nanoton amount in tons, grouping the integer part
// and keeping up to ten fractional digits.
func (p *Printer) FormatBalance(balance string) (string, error) {
	nano, err := hexutil.DecodeBig(balance)
	if err != nil {
		return "", fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	intPart, frac := new(big.Int).QuoRem(nano, big.NewInt(NanoPerTon), new(big.Int))

	var res string
	if intPart.IsInt64() {
		res = p.fmt.Sprintf("%v", number.Decimal(intPart.Int64()))
	} else {
		res = intPart.String()
	}
	if frac.Sign() == 0 {
		return res, nil
	}

	// formatted as "1.xxx" so that the locale decides the separator
	withOne := float64(frac.Int64()+NanoPerTon) / NanoPerTon
	fracText := p.fmt.Sprintf("%v", number.Decimal(withOne, number.MaxFractionDigits(10)))
	return res + fracText[1:], nil
}

func AccountTypeColor(t types.AccountType) func(format string, args ...any) string {
	switch t {
	case types.AccountUninit:
		return color.YellowString
	case types.AccountActive:
		return color.GreenString
	case types.AccountFrozen:
		return color.BlueString
	case types.AccountNonExist:
		return color.RedString
	}
	return color.HiBlackString
}

func Gray(format string, args ...any) string {
	return color.HiBlackString(format, args...)
}

func White(format string, args ...any) string {
	return color.WhiteString(format, args...)
}

func Green(format string, args ...any) string {
	return color.GreenString(format, args...)
}

func Yellow(format string, args ...any) string {
	return color.YellowString(format, args...)
}

func Red(format string, args ...any) string {
	return color.RedString(format, args...)
}
