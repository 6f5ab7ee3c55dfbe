package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionView    = "view"  // view:<quizID>
	actionTake    = "take"  // take:<quizID>
	actionAnswer  = "ans"   // ans:<attemptID>:<question>:<option>
	actionNav     = "nav"   // nav:<attemptID>:<prev|next>
	actionJump    = "jump"  // jump:<attemptID>:<question>
	actionSubmit  = "sub"   // sub:<attemptID>
	actionRetry   = "retry" // retry:<attemptID>
	actionHistory = "hist"  // hist:<page>
	actionDelete  = "del"   // del:<ask|yes|no>:<quizID>:<page>
	actionNoop    = "noop"
)

// Navigation directions.
const (
	navPrev = "prev"
	navNext = "next"
)

// Delete sub-actions.
const (
	deleteAsk     = "ask"
	deleteConfirm = "yes"
	deleteCancel  = "no"
)

// maxCallbackData is Telegram's limit on callback data in bytes.
const maxCallbackData = 64

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or an error when it is missing.
func (cd callbackData) param(i int) (string, error) {
	if i >= len(cd.Params) || cd.Params[i] == "" {
		return "", errMalformedCallback
	}
	return cd.Params[i], nil
}

// intParam parses the i-th parameter as a non-negative int.
func (cd callbackData) intParam(i int) (int, error) {
	p, err := cd.param(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 0 {
		return 0, errMalformedCallback
	}
	return n, nil
}

// int64Param parses the i-th parameter as a non-negative int64.
func (cd callbackData) int64Param(i int) (int64, error) {
	p, err := cd.param(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(p, 10, 64)
	if err != nil || n < 0 {
		return 0, errMalformedCallback
	}
	return n, nil
}

func buildViewCallback(quizID int64) string {
	return callbackData{Action: actionView, Params: []string{strconv.FormatInt(quizID, 10)}}.encode()
}

func buildTakeCallback(quizID int64) string {
	return callbackData{Action: actionTake, Params: []string{strconv.FormatInt(quizID, 10)}}.encode()
}

// buildAnswerCallback builds callback data for choosing option of question.
// Options travel by index; the text may exceed the callback size limit.
func buildAnswerCallback(attemptID string, question, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{attemptID, strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

func buildNavCallback(attemptID, direction string) string {
	return callbackData{Action: actionNav, Params: []string{attemptID, direction}}.encode()
}

func buildJumpCallback(attemptID string, question int) string {
	return callbackData{Action: actionJump, Params: []string{attemptID, strconv.Itoa(question)}}.encode()
}

func buildSubmitCallback(attemptID string) string {
	return callbackData{Action: actionSubmit, Params: []string{attemptID}}.encode()
}

func buildRetryCallback(attemptID string) string {
	return callbackData{Action: actionRetry, Params: []string{attemptID}}.encode()
}

func buildHistoryCallback(page int) string {
	return callbackData{Action: actionHistory, Params: []string{strconv.Itoa(page)}}.encode()
}

func buildDeleteCallback(sub string, quizID int64, page int) string {
	return callbackData{
		Action: actionDelete,
		Params: []string{sub, strconv.FormatInt(quizID, 10), strconv.Itoa(page)},
	}.encode()
}

func buildNoopCallback() string {
	return actionNoop
}
