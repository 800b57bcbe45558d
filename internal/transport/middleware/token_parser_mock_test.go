package middleware

import (
	"sync"
)

var _ tokenParser = &tokenParserMock{}

type tokenParserMock struct {
	ParseFunc func(token string) (string, error)

	calls struct {
		Parse []struct {
			Token string
		}
	}
	lockParse sync.RWMutex
}

func (mock *tokenParserMock) Parse(token string) (string, error) {
	if mock.ParseFunc == nil {
		panic("tokenParserMock.ParseFunc: method is nil but tokenParser.Parse was just called")
	}
	callInfo := struct {
		Token string
	}{
		Token: token,
	}
	mock.lockParse.Lock()
	mock.calls.Parse = append(mock.calls.Parse, callInfo)
	mock.lockParse.Unlock()
	return mock.ParseFunc(token)
}

func (mock *tokenParserMock) ParseCalls() []struct {
	Token string
} {
	var calls []struct {
		Token string
	}
	mock.lockParse.RLock()
	calls = mock.calls.Parse
	mock.lockParse.RUnlock()
	return calls
}
