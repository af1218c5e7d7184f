package util

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func AssertEqual(t *testing.T, expected any, actual any) {
	t.Helper()

	expectedString, expectedIsString := expected.(string)
	actualString, actualIsString := actual.(string)

	if !reflect.DeepEqual(expected, actual) {
		if expectedIsString && actualIsString {
			assertEqualStrings(t, expectedString, actualString)
		} else {
			sigolo.Errorb(1, "Expect to be equal.\nExpected: %+v\n----------\nActual  : %+v\n", expected, actual)
			t.Fail()
		}
	}
}

// assertEqualStrings prints both strings side by side and marks differing lines. This is easier to read than the
// default output when comparing dumped trees.
func assertEqualStrings(t *testing.T, expected string, actual string) {
	t.Helper()

	expectedLines := strings.Split(strings.ReplaceAll(expected, "\n", "\\n\n"), "\n")
	actualLines := strings.Split(strings.ReplaceAll(actual, "\n", "\\n\n"), "\n")

	sigolo.Errorb(2, "Expect to be equal.\n|   | %-50s | %-50s |", "Expected", "Actual")
	fmt.Printf("|%s|\n", strings.Repeat("-", 109))

	lineCount := len(expectedLines)
	if len(actualLines) > lineCount {
		lineCount = len(actualLines)
	}

	for i := 0; i < lineCount; i++ {
		expectedLine, actualLine := "", ""
		if i < len(expectedLines) {
			expectedLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actualLine = actualLines[i]
		}

		changeMark := " "
		if actualLine != expectedLine {
			changeMark = "*"
		}

		fmt.Printf("| %s | %-50s | %-50s |\n", changeMark, "\""+expectedLine+"\"", "\""+actualLine+"\"")
	}

	t.Fail()
}

func AssertNil(t *testing.T, value any) {
	t.Helper()
	if !isNil(value) {
		sigolo.Errorb(1, "Expect to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func AssertNotNil(t *testing.T, value any) {
	t.Helper()
	if isNil(value) {
		sigolo.Errorb(1, "Expect NOT to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func AssertError(t *testing.T, expectedMessage string, err error) {
	t.Helper()
	if err == nil {
		sigolo.Errorb(1, "Expected error with message: %s\nActual error: nil", expectedMessage)
		t.Fail()
		return
	}
	if expectedMessage != err.Error() {
		sigolo.Errorb(1, "Expected message: %s\nActual error message: %s", expectedMessage, err.Error())
		t.Fail()
	}
}

func AssertErrorContains(t *testing.T, expectedPart string, err error) {
	t.Helper()
	if err == nil || !strings.Contains(err.Error(), expectedPart) {
		sigolo.Errorb(1, "Expected error containing: %s\nActual error: %v", expectedPart, err)
		t.Fail()
	}
}

// AssertErrorType checks that the error is of type T and returns it.
func AssertErrorType[T error](t *testing.T, err error) T {
	t.Helper()
	typedErr, ok := err.(T)
	if !ok {
		var zero T
		sigolo.Errorb(1, "Expected error of type %T but got %T: %v", zero, err, err)
		t.FailNow()
	}
	return typedErr
}

func AssertTrue(t *testing.T, b bool) {
	t.Helper()
	if !b {
		sigolo.Errorb(1, "Expected true but got false")
		t.Fail()
	}
}

func AssertFalse(t *testing.T, b bool) {
	t.Helper()
	if b {
		sigolo.Errorb(1, "Expected false but got true")
		t.Fail()
	}
}

func AssertMatch(t *testing.T, regexString string, content string) {
	t.Helper()
	regex := regexp.MustCompile(regexString)
	if !regex.MatchString(content) {
		sigolo.Errorb(1, "Expected to match\nRegex: %s\nContent: %s", regexString, content)
		t.Fail()
	}
}
