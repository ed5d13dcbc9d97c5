package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oleiade/gomme"
)

const maxClockFieldDigits = 2

type ParserResult = gomme.Result[time.Duration, string]

var timestamp = gomme.Alternative(
	tillEnd[string, time.Duration](parseSeconds), // e.g., 90
	tillEnd[string, time.Duration](parseClock),   // e.g., 1:02:03.500
	tillEnd[string, time.Duration](parseUnits),   // e.g., 1h2m3s, 1500ms
)

// ParseTimestamp parses a timestamp given as bare seconds, a clock value
// (H:MM:SS.mmm, MM:SS or SS.mmm), or a sum of unit-suffixed parts.
func ParseTimestamp(input string) (time.Duration, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, errors.New("empty timestamp")
	}

	result := timestamp(s)
	if result.Err != nil {
		return 0, fmt.Errorf("unrecognized timestamp %q", input)
	}

	return result.Output, nil
}

func parseSeconds(input string) ParserResult {
	return gomme.Map(
		integer[string](),
		func(n int) (time.Duration, error) {
			return time.Duration(n) * time.Second, nil
		},
	)(input)
}

func parseClock(input string) ParserResult {
	field := gomme.Optional(
		gomme.Map(
			gomme.Preceded(gomme.Char[string](':'), boundedInteger(maxClockFieldDigits)),
			func(n int) (*int, error) { return &n, nil },
		),
	)
	fraction := gomme.Optional(
		gomme.Preceded(
			gomme.Char[string]('.'),
			gomme.Map(gomme.Take[string](3), atoiDigits),
		),
	)

	return gomme.Map(
		gomme.Pair(
			gomme.Pair(integer[string](), gomme.Pair(field, field)),
			fraction,
		),
		func(
			p gomme.PairContainer[
				gomme.PairContainer[int, gomme.PairContainer[*int, *int]],
				int,
			],
		) (time.Duration, error) {
			first := p.Left.Left
			second, third := p.Left.Right.Left, p.Left.Right.Right

			var hours, minutes, seconds int
			switch {
			case second == nil:
				seconds = first
			case third == nil:
				minutes, seconds = first, *second
			default:
				hours, minutes, seconds = first, *second, *third
			}

			return time.Duration(hours)*time.Hour +
				time.Duration(minutes)*time.Minute +
				time.Duration(seconds)*time.Second +
				time.Duration(p.Right)*time.Millisecond, nil
		},
	)(input)
}

func parseUnits(input string) ParserResult {
	sign := gomme.Optional(gomme.Char[string]('-'))
	unit := gomme.Alternative(
		gomme.Token[string]("ms"),
		gomme.Token[string]("s"),
		gomme.Token[string]("m"),
		gomme.Token[string]("h"),
	)
	part := gomme.Map(
		gomme.Pair(gomme.Pair(sign, integer[string]()), unit),
		func(p gomme.PairContainer[gomme.PairContainer[rune, int], string]) (time.Duration, error) {
			n := time.Duration(p.Left.Right)
			if p.Left.Left == '-' {
				n = -n
			}
			switch p.Right {
			case "ms":
				return n * time.Millisecond, nil
			case "s":
				return n * time.Second, nil
			case "m":
				return n * time.Minute, nil
			default:
				return n * time.Hour, nil
			}
		},
	)

	var total time.Duration
	remaining := input
	matched := 0
	for len(remaining) > 0 {
		result := part(remaining)
		if result.Err != nil {
			break
		}
		total += result.Output
		remaining = result.Remaining
		matched++
	}
	if matched == 0 {
		return gomme.Failure[string, time.Duration](
			gomme.NewError(input, "parseUnits"),
			input,
		)
	}

	return gomme.Success(total, remaining)
}

func atoiDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a digit: %q", r)
		}
	}
	return strconv.Atoi(s)
}

func integer[Input gomme.Bytes]() gomme.Parser[Input, int] {
	return func(input Input) gomme.Result[int, Input] {
		parser := gomme.Recognize(gomme.Digit1[Input]())

		result := parser(input)
		if result.Err != nil {
			return gomme.Failure[Input, int](gomme.NewError(input, "integer"), input)
		}

		n, err := strconv.Atoi(string(result.Output))
		if err != nil {
			return gomme.Failure[Input, int](gomme.NewError(input, "integer"), input)
		}

		return gomme.Success(n, result.Remaining)
	}
}

func boundedInteger(maxDigits int) gomme.Parser[string, int] {
	return func(input string) gomme.Result[int, string] {
		result := gomme.Digit1[string]()(input)
		if result.Err != nil || len(result.Output) > maxDigits {
			return gomme.Failure[string, int](gomme.NewError(input, "boundedInteger"), input)
		}

		n, err := strconv.Atoi(result.Output)
		if err != nil {
			return gomme.Failure[string, int](gomme.NewError(input, "boundedInteger"), input)
		}

		return gomme.Success(n, result.Remaining)
	}
}

func tillEnd[Input gomme.Bytes, Output any](
	parser gomme.Parser[Input, Output],
) gomme.Parser[Input, Output] {
	return func(input Input) gomme.Result[Output, Input] {
		result := parser(input)
		if result.Err != nil || len(result.Remaining) != 0 {
			return gomme.Failure[Input, Output](
				gomme.NewError(input, "tillEnd"),
				input,
			)
		}
		return gomme.Success(result.Output, result.Remaining)
	}
}
