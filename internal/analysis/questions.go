package analysis

import (
	"regexp"
	"strings"
)

// Schreibweisen wie "1.a.i" oder "12a(iii)" werden auf die kanonische
// Form "1(a)(i)" gebracht, damit Gruppierung und Merge greifen.
var (
	dotLetterRoman   = regexp.MustCompile(`(\d+)\.([a-z]+)\.([ivx]+)`)
	dotLetter        = regexp.MustCompile(`(\d+)\.([a-z]+)`)
	dotParenRoman    = regexp.MustCompile(`(\d+)\.\(([a-z])\)\.([ivx]+)`)
	dotBeforeParen   = regexp.MustCompile(`\.\(`)
	letterParenRoman = regexp.MustCompile(`(\d+)([a-z])\((i{1,3}|iv|v{1,2})\)`)
	digitLetter      = regexp.MustCompile(`(\d+)([a-z])`)
)

// CorrectQuestionNumber repariert Punkt-Schreibweisen einer Fragenummer.
func CorrectQuestionNumber(questionNumber string) string {
	corrected := dotLetterRoman.ReplaceAllString(questionNumber, "$1($2)($3)")
	corrected = dotLetter.ReplaceAllString(corrected, "$1($2)")
	corrected = dotParenRoman.ReplaceAllString(corrected, "$1($2)($3)")
	corrected = dotBeforeParen.ReplaceAllString(corrected, "(")
	corrected = strings.ReplaceAll(corrected, " ", "")
	return strings.TrimSpace(corrected)
}

// StandardizeQuestionNumber bringt Kurzformen wie "12a" auf die Klammerform.
func StandardizeQuestionNumber(questionNumber string) string {
	questionNumber = letterParenRoman.ReplaceAllString(questionNumber, "$1($2)($3)")
	questionNumber = digitLetter.ReplaceAllString(questionNumber, "$1($2)")
	return questionNumber
}

// MainQuestionNo liefert die Hauptfragenummer ("7(b)(ii)" -> "7").
func MainQuestionNo(questionNo string) string {
	if i := strings.Index(questionNo, "("); i >= 0 {
		return questionNo[:i]
	}
	return questionNo
}

// SubQuestionNo liefert die Nummer bis zur zweiten Ebene ("7(b)(ii)" -> "7(b)").
func SubQuestionNo(questionNo string) string {
	i := strings.Index(questionNo, "(")
	if i < 0 {
		return questionNo
	}
	rest := questionNo[i+1:]
	if j := strings.Index(rest, ")"); j >= 0 {
		return questionNo[:i] + "(" + rest[:j] + ")"
	}
	return questionNo[:i] + "(" + rest + ")"
}
