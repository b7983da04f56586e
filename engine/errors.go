package engine

import "fmt"

type FlowNotFoundError struct {
	Id string
}

func (e FlowNotFoundError) Error() string {
	return fmt.Sprintf("flow %s not found", e.Id)
}

type FlowDisabledError struct {
	Id   string
	Name string
}

func (e FlowDisabledError) Error() string {
	return fmt.Sprintf("flow %s is disabled", e.Id)
}
