package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables() Tables {
	ts := Tables{}
	ts.Add(NewTable("normMonth", map[string]string{
		"January":   "01",
		"May":       "05",
		"September": "09",
		"Sept.":     "09",
	}))
	ts.Add(NewTable("normDay", map[string]string{
		"1":   "01",
		"1st": "01",
		"7":   "07",
	}))
	ts.Add(NewTable("normPartWords", map[string]string{
		"the middle of": "MID",
		"early":         "START",
	}))
	return ts
}

func TestParse_RoundTrip(t *testing.T) {
	templates := []string{
		"",
		"UNDEF-last-month",
		"group(1)",
		"group(2)-%normMonth(group(3))-%normDay(group(4))",
		"%SUBSTRING%(group(1),0,2)XX",
		"%UPPERCASE%(group(2))",
		"%LOWERCASE%(group(2))",
		"%SUM%(group(1),1)",
		"UNDEF-this-day-PLUS-%SUM%(group(1),%SUBSTRING%(group(2),0,1))",
		"P%normDay(group(1))D",
		"%normMonth(group(1) group(2))",
	}

	p := NewParser(testTables())
	for _, tmpl := range templates {
		t.Run(tmpl, func(t *testing.T) {
			e, err := p.Parse(tmpl)
			require.NoError(t, err)
			assert.Equal(t, tmpl, e.String())
		})
	}
}

func TestParse_Simplify(t *testing.T) {
	p := NewParser(testTables())

	e, err := p.Parse("group(1)")
	require.NoError(t, err)
	assert.Equal(t, Group(1), e, "a single element is returned unwrapped")

	e, err = p.Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, Literal("abc"), e)

	e, err = p.Parse("a-group(1)-b")
	require.NoError(t, err)
	require.IsType(t, Concat{}, e)
	assert.Equal(t, Concat{Literal("a-"), Group(1), Literal("-b")}, e)

	e, err = p.Parse("%UPPERCASE%(x-group(1))")
	require.NoError(t, err)
	up, ok := e.(*Uppercase)
	require.True(t, ok)
	assert.Equal(t, Concat{Literal("x-"), Group(1)}, up.Operand)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "unknown table",
			template: "%normNope(group(1))",
			want:     "Expected valid normalization function at '^': %normNope(^group(1))",
		},
		{
			name:     "unknown builtin",
			template: "%FOO%(group(1))",
			want:     "Expected function call beginning '%' at '^': %FOO%(^group(1))",
		},
		{
			name:     "group without integer",
			template: "group(x)",
			want:     "Expected integer at '^': group(^x)",
		},
		{
			name:     "unclosed group",
			template: "group(1",
			want:     "Expected ')' at '^': group(1^",
		},
		{
			name:     "unclosed call",
			template: "%UPPERCASE%(group(1)",
			want:     "Expected ')' at '^': %UPPERCASE%(group(1)^",
		},
		{
			name:     "substring missing end",
			template: "%SUBSTRING%(group(1),0)",
			want:     "Expected ',' at '^': %SUBSTRING%(group(1),0^)",
		},
		{
			name:     "sum missing operand",
			template: "%SUM%(group(1))",
			want:     "Expected ',' at '^': %SUM%(group(1))^",
		},
	}

	p := NewParser(testTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.template)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestEvaluate(t *testing.T) {
	match := Groups{
		0: "May 7, 2023",
		1: "2023",
		2: "may",
		3: "May",
		4: "7",
		5: "the  middle of",
	}

	tests := []struct {
		template string
		want     string
	}{
		{"group(1)-%normMonth(group(3))-%normDay(group(4))", "2023-05-07"},
		{"%SUBSTRING%(group(1),0,2)XX", "20XX"},
		{"%UPPERCASE%(group(2))", "MAY"},
		{"%LOWERCASE%(group(3))", "may"},
		{"%SUM%(group(1),1)", "2024"},
		{"%SUM%(group(4),%SUBSTRING%(group(1),3,4))", "10"},
		{"%normPartWords(group(5))", "MID"},
		{"%normMonth(%UPPERCASE%(%SUBSTRING%(group(3),0,1))%LOWERCASE%(%SUBSTRING%(group(2),1,3)))", "05"},
	}

	p := NewParser(testTables())
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			e, err := p.Parse(tt.template)
			require.NoError(t, err)

			got, err := Evaluate(e, match)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Evaluate(e, match)
			require.NoError(t, err)
			assert.Equal(t, got, again, "evaluation is pure")
		})
	}
}

func TestEvaluate_AbsentGroup(t *testing.T) {
	p := NewParser(testTables())
	match := Groups{0: "May", 1: "May"}

	tests := []struct {
		template string
		want     string
	}{
		{"group(2)", ""},
		{"x-group(2)-y", "x--y"},
		{"%normMonth(group(2))", ""},
		{"%UPPERCASE%(group(2))", ""},
		{"%SUBSTRING%(group(2),0,2)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			e, err := p.Parse(tt.template)
			require.NoError(t, err)

			got, err := Evaluate(e, match)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("group reports absence", func(t *testing.T) {
		_, ok, err := Group(2).Eval(match)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("sum over absent fails", func(t *testing.T) {
		e, err := p.Parse("%SUM%(group(2),1)")
		require.NoError(t, err)

		_, err = Evaluate(e, match)
		var ee *EvalError
		require.ErrorAs(t, err, &ee)
	})
}

func TestEvaluate_MissingKey(t *testing.T) {
	p := NewParser(testTables())
	e, err := p.Parse("%normMonth(group(1))")
	require.NoError(t, err)

	_, err = Evaluate(e, Groups{1: "Smarch"})
	require.Error(t, err)
	assert.True(t, IsNormalizationError(err))
	assert.Equal(t, `No normalization key found: "Smarch" [from %normMonth(group(1))]`, err.Error())

	var ne *NormalizationError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "normMonth", ne.Table)
	assert.Equal(t, "Smarch", ne.Key)
}

func TestEvaluate_SubstringOutOfRange(t *testing.T) {
	e, err := Parse("%SUBSTRING%(group(1),0,9)", nil)
	require.NoError(t, err)

	_, err = Evaluate(e, Groups{1: "2023"})
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, err.Error(), "out of range")
}

func TestEvaluate_SumNonInteger(t *testing.T) {
	e, err := Parse("%SUM%(group(1),group(2))", nil)
	require.NoError(t, err)

	_, err = Evaluate(e, Groups{1: "two", 2: "3"})
	var ee *EvalError
	require.ErrorAs(t, err, &ee)
}

func TestTable_KeyNormalization(t *testing.T) {
	table := NewTable("normPartWords", map[string]string{"the   middle\tof": "MID"})

	v, ok := table.Lookup("the middle of")
	require.True(t, ok)
	assert.Equal(t, "MID", v)

	// Decomposed é (e + U+0301) matches the composed key.
	table.Put("caf\u00e9", "x")
	v, ok = table.Lookup("cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"caf\u00e9", "the middle of"}, table.Keys())
}
