package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/maya-kin/internal/lookup"
	"github.com/zapponejosh/maya-kin/internal/table"
)

func testService() *lookup.Service {
	matrix := table.New("matrix", []string{"KIN", "圖騰"}, [][]string{
		{"164", "黃種子"},
		{"260", "黃太陽"},
	})
	matrix.Source = "matrix.csv"
	birthdays := table.New("maya_birthday", []string{"國曆月日", "瑪雅生日"}, [][]string{
		{"07/26", "無時間日"},
		{"1/1", "磁性的月 1日"},
	})
	birthdays.Source = "maya_birthday.xlsx"
	return lookup.New(table.Set{"matrix": matrix, "maya_birthday": birthdays}, lookup.DefaultOptions())
}

// run executes mayactl with args against the test tables.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	a := &app{load: func(*cobra.Command, *app) (*lookup.Service, error) {
		return testService(), nil
	}}
	cmd := newRootCmd(a)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestKinCmd(t *testing.T) {
	out, err := run(t, "kin", "164")
	if err != nil {
		t.Fatalf("kin 164 error = %v", err)
	}
	for _, want := range []string{"KIN 164", "tone 8", "seal 4", "黃種子"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestKinCmd_Errors(t *testing.T) {
	tests := []struct {
		arg  string
		want error
	}{
		{"1", table.ErrNotFound},
		{"0", nil},
		{"abc", nil},
	}

	for _, tt := range tests {
		_, err := run(t, "kin", tt.arg)
		if err == nil {
			t.Errorf("kin %s succeeded, want error", tt.arg)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("kin %s error = %v, want %v", tt.arg, err, tt.want)
		}
	}
}

func TestBirthdayCmd(t *testing.T) {
	for _, arg := range []string{"07/26", "7/26", "2013-07-26"} {
		out, err := run(t, "birthday", arg)
		if err != nil {
			t.Fatalf("birthday %s error = %v", arg, err)
		}
		if !strings.Contains(out, "07/26  無時間日") {
			t.Errorf("birthday %s output:\n%s", arg, out)
		}
	}

	out, err := run(t, "birthday", "2/2")
	if err != nil {
		t.Fatalf("birthday 2/2 error = %v", err)
	}
	if !strings.Contains(out, "no Maya birthday for 02/02") {
		t.Errorf("birthday 2/2 output:\n%s", out)
	}

	if _, err := run(t, "birthday", "13/40"); err == nil {
		t.Error("birthday 13/40 succeeded, want error")
	}
}

func TestBirthdayCmd_MissingLabelColumn(t *testing.T) {
	opts := lookup.DefaultOptions()
	opts.BirthdayLabelColumn = "label"
	svc := lookup.New(table.Set{
		"maya_birthday": table.New("maya_birthday", []string{"國曆月日", "瑪雅生日"}, [][]string{
			{"07/26", "無時間日"},
		}),
	}, opts)

	a := &app{load: func(*cobra.Command, *app) (*lookup.Service, error) {
		return svc, nil
	}}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"birthday", "07/26"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("birthday error = %v", err)
	}
	if !strings.Contains(out.String(), `label column "label" not found in table "maya_birthday"`) {
		t.Errorf("output missing label warning:\n%s", out.String())
	}
}

func TestHelpCmd_SkipsLoading(t *testing.T) {
	a := &app{load: func(*cobra.Command, *app) (*lookup.Service, error) {
		return nil, errors.New("no data directory")
	}}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"help", "kin"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help kin error = %v", err)
	}
	if !strings.Contains(out.String(), "kin") {
		t.Errorf("help output:\n%s", out.String())
	}
	if a.svc != nil {
		t.Error("help loaded the tables")
	}
}

func TestCalcCmd(t *testing.T) {
	out, err := run(t, "calc", "2013-07-26")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}
	if !strings.Contains(out, "KIN 164") || !strings.Contains(out, "黃種子") {
		t.Errorf("calc output:\n%s", out)
	}

	// 2013-01-29 is KIN 246; the second half restarts the day count.
	out, err = run(t, "calc", "2013-01-29", "--second-half")
	if err != nil {
		t.Fatalf("calc --second-half error = %v", err)
	}
	if !strings.Contains(out, "KIN 218") {
		t.Errorf("calc --second-half output:\n%s", out)
	}

	if _, err := run(t, "calc", "26/07/2013"); err == nil {
		t.Error("calc with bad date succeeded, want error")
	}
}

func TestTablesCmd(t *testing.T) {
	out, err := run(t, "tables", "--preview", "1")
	if err != nil {
		t.Fatalf("tables error = %v", err)
	}
	for _, want := range []string{"2 tables loaded", "matrix", "(2 rows × 2 columns, matrix.csv)", "164", "07/26"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "黃太陽") {
		t.Errorf("preview exceeded one row:\n%s", out)
	}

	if _, err := run(t, "tables", "--preview", "-1"); err == nil {
		t.Error("tables --preview -1 succeeded, want error")
	}
}

// scriptedPrompter answers from fixed lists.
type scriptedPrompter struct {
	selects  []string
	inputs   []string
	confirms []bool
}

func (p *scriptedPrompter) Select(string, []string) (string, error) {
	if len(p.selects) == 0 {
		return "", terminal.InterruptErr
	}
	s := p.selects[0]
	p.selects = p.selects[1:]
	return s, nil
}

func (p *scriptedPrompter) Input(string, string) (string, error) {
	s := p.inputs[0]
	p.inputs = p.inputs[1:]
	return s, nil
}

func (p *scriptedPrompter) Confirm(string) (bool, error) {
	c := p.confirms[0]
	p.confirms = p.confirms[1:]
	return c, nil
}

func TestRunInteractive(t *testing.T) {
	p := &scriptedPrompter{
		selects:  []string{menuKin, menuKin, menuBirthday, menuCalc, menuTables, menuQuit},
		inputs:   []string{"260", "999", "1/1", "2013-01-29"},
		confirms: []bool{true},
	}

	var out bytes.Buffer
	if err := runInteractive(&out, testService(), p); err != nil {
		t.Fatalf("runInteractive() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"黃太陽", "invalid kin", "磁性的月 1日", "KIN 218", "2 tables loaded"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if len(p.selects) != 0 || len(p.inputs) != 0 || len(p.confirms) != 0 {
		t.Errorf("script not consumed: %+v", p)
	}
}

func TestRunInteractive_Interrupt(t *testing.T) {
	var out bytes.Buffer
	if err := runInteractive(&out, testService(), &scriptedPrompter{}); err != nil {
		t.Errorf("runInteractive() on interrupt error = %v, want nil", err)
	}
}
