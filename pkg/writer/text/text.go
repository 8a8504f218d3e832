// Package text renders a match report as a tab-separated table, one row per match.
package text

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/PepMatch/pkg/core"
	"github.com/ChrisMcGann/PepMatch/pkg/engine"
)

// NoMatch fills the record column of a peptide without matches.
const NoMatch = "No match"

// Header is the column header without annotation columns.
const Header = "peptide\tlength\trecord\tstart\tend\tc_term\tn_flank\tc_flank\tn_logo\tc_logo"

// AnnotatedHeader is the column header when annotation channels are reported.
const AnnotatedHeader = "peptide\tlength\trecord\tstart\tend\tc_term\tn_flank\tc_flank\t" +
	"sst_n\tsst_pept\tsst_c\ttm_n\ttm_pept\ttm_c\tconf_n\tconf_pept\tconf_c\tacc_n\tacc_pept\tacc_c\t" +
	"n_logo\tc_logo"

// Options controls the table layout.
type Options struct {
	Header    bool // write the column header first
	Annotated bool // include the twelve annotation columns
}

// Write renders every result of rep to out in query order.
func Write(out io.Writer, rep *engine.Report, opt Options) error {
	bw := bufio.NewWriter(out)
	if opt.Header {
		h := Header
		if opt.Annotated {
			h = AnnotatedHeader
		}
		if _, err := bw.WriteString(h + "\n"); err != nil {
			return err
		}
	}
	for i := range rep.Results {
		if err := writeResult(bw, &rep.Results[i], opt.Annotated); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeResult(bw *bufio.Writer, res *engine.Result, annotated bool) error {
	length := strconv.Itoa(len(res.Peptide))
	if !res.Matched() {
		_, err := bw.WriteString(strings.Join([]string{res.Peptide, length, NoMatch}, "\t") + "\n")
		return err
	}

	nLogo, cLogo := res.Logo.Format()
	cols := make([]string, 0, 22)
	for i := range res.Matches {
		m := &res.Matches[i]
		up, down := m.Flanks()
		cols = append(cols[:0],
			res.Peptide, length, m.RecordID,
			strconv.Itoa(m.Start), strconv.Itoa(m.End), strconv.Itoa(m.CTerm),
			up, down,
		)
		if annotated {
			cols = appendChannels(cols, m.Annotations)
		}
		cols = append(cols, nLogo, cLogo)
		if _, err := bw.WriteString(strings.Join(cols, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// appendChannels adds three columns per channel; absent channels leave them empty.
func appendChannels(cols []string, windows []core.ChannelWindow) []string {
	for _, cw := range windows {
		up, span, down := cw.Text()
		cols = append(cols, up, span, down)
	}
	return cols
}
