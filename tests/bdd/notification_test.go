package bdd

import "github.com/cucumber/godog"

// Feature: 通知中心
//   In order to keep up with orders and requests
//   As users of the marketplace
//   I want to receive notifications in real time and manage them later

//   Background:
//     Given "buyer" 已登入並取得 Token "tokenBuyer"
//     And "admin" 已登入並取得 Token "tokenAdmin"

//   Scenario: 訂單付款產生即時通知
//     Given "buyer" 已建立 websocket 連線
//     When 訂單事件 "order.paid" 進入佇列 for "buyer"
//     Then "buyer" 應該收到 ORDER 類型通知

//   Scenario: 新開店申請通知所有管理員
//     When 申請事件 "request.submitted" 進入佇列 by "seller"
//     Then 每位管理員都應該有一則 SYSTEM 類型通知

//   Scenario: 標記全部已讀
//     Given "buyer" 有 5 則未讀通知
//     When "buyer" 標記全部通知為已讀
//     Then "buyer" 的未讀通知數應該是 0

func notifStep1(arg1 string) error {
	return godog.ErrPending
}

func notifStep2(arg1, arg2 string) error {
	return godog.ErrPending
}

func notifStep3(arg1 string) error {
	return godog.ErrPending
}

func notifStep4(arg1 string, arg2 int) error {
	return godog.ErrPending
}

func everyAdminHasSystemNotification() error {
	return godog.ErrPending
}

func InitializeNotificationScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" 已建立 websocket 連線$`, notifStep1)
	ctx.Step(`^訂單事件 "([^"]*)" 進入佇列 for "([^"]*)"$`, notifStep2)
	ctx.Step(`^"([^"]*)" 應該收到 ORDER 類型通知$`, notifStep3)
	ctx.Step(`^申請事件 "([^"]*)" 進入佇列 by "([^"]*)"$`, notifStep2)
	ctx.Step(`^每位管理員都應該有一則 SYSTEM 類型通知$`, everyAdminHasSystemNotification)
	ctx.Step(`^"([^"]*)" 有 (\d+) 則未讀通知$`, notifStep4)
	ctx.Step(`^"([^"]*)" 標記全部通知為已讀$`, notifStep3)
	ctx.Step(`^"([^"]*)" 的未讀通知數應該是 (\d+)$`, notifStep4)
}
