// Package xevent 定义实验上报事件及其构造器。
//
// 事件分两类：[KindActivation]（用户进入实验并看到变体）与
// [KindConversion]（用户完成某个目标）。[Event] 为值类型，构造后不再修改，
// 交给 xdispatch 队列后由队列持有直至发送完成或丢弃。
//
// [Builder] 只负责按形状组装事件、生成 ID 与时间戳，不做业务校验。
// 时钟与 ID 生成器可注入，测试中可得到确定的输出：
//
//	b := xevent.NewBuilder(
//	    xevent.WithClock(func() time.Time { return fixed }),
//	    xevent.WithIDGenerator(func() string { return "evt-1" }),
//	)
package xevent
