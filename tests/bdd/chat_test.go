package bdd

import "github.com/cucumber/godog"

// godog run ./tests/bdd/featureFiles/chat_service.feature
// Use of godog CLI is deprecated, please use *testing.T instead.
// See https://github.com/cucumber/godog/discussions/478 for details.
// Feature: 即時私訊
//   In order to reach buyers and sellers instantly
//   As registered users of the marketplace
//   I want to exchange direct messages and see read state

//   Background:
//     Given "alice" 已登入並取得 Token "tokenA"
//     And "bob" 已登入並取得 Token "tokenB"

//   Scenario: 發送與接收訊息
//     Given "alice" 和 "bob" 皆已建立 websocket 連線
//     When "alice" 發送訊息 "Hello B!" 給 "bob"
//     Then "bob" 應該收到 new_message "Hello B!"
//     And "bob" 應該收到一則 MESSAGE 類型通知

//   Scenario: 收件者離線時訊息仍落地
//     Given 只有 "alice" 建立 websocket 連線
//     When "alice" 發送訊息 "are you there?" 給 "bob"
//     Then "bob" 的未讀訊息數應該是 1

//   Scenario: 整個對話標記已讀
//     Given 已存在 "alice" 與 "bob" 的對話 with 3 則未讀
//     When "bob" 標記與 "alice" 的對話為已讀
//     Then "alice" 應該收到 messages_read_by "bob"

func StepDefinitioninition1(arg1 string) error {
	return godog.ErrPending
}

func StepDefinitioninition2(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

func StepDefinitioninition3(arg1, arg2 string) error {
	return godog.ErrPending
}

func StepDefinitioninition4(arg1 string) error {
	return godog.ErrPending
}

func StepDefinitioninition5(arg1 string, arg2 int) error {
	return godog.ErrPending
}

func withUnread(arg1, arg2 string, arg3 int) error {
	return godog.ErrPending
}

func token(arg1, arg2 string) error {
	return godog.ErrPending
}

func bothConnected(arg1, arg2 string) error {
	return godog.ErrPending
}

func InitializeChatServiceScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" 已登入並取得 Token "([^"]*)"$`, token)
	ctx.Step(`^"([^"]*)" 和 "([^"]*)" 皆已建立 websocket 連線$`, bothConnected)
	ctx.Step(`^只有 "([^"]*)" 建立 websocket 連線$`, StepDefinitioninition1)
	ctx.Step(`^"([^"]*)" 發送訊息 "([^"]*)" 給 "([^"]*)"$`, StepDefinitioninition2)
	ctx.Step(`^"([^"]*)" 應該收到 new_message "([^"]*)"$`, StepDefinitioninition3)
	ctx.Step(`^"([^"]*)" 應該收到一則 MESSAGE 類型通知$`, StepDefinitioninition4)
	ctx.Step(`^"([^"]*)" 的未讀訊息數應該是 (\d+)$`, StepDefinitioninition5)
	ctx.Step(`^已存在 "([^"]*)" 與 "([^"]*)" 的對話 with (\d+) 則未讀$`, withUnread)
	ctx.Step(`^"([^"]*)" 標記與 "([^"]*)" 的對話為已讀$`, StepDefinitioninition3)
	ctx.Step(`^"([^"]*)" 應該收到 messages_read_by "([^"]*)"$`, StepDefinitioninition3)
}
