// Package xbucket 提供确定性哈希分桶与累计权重区间分配。
//
// # 分桶
//
// [Hash] 使用固定种子的 32 位 murmur3 哈希，同一输入在任意进程、任意版本中
// 结果一致。[Scale] 将哈希值线性映射到 [1, max]，[Bucket] 固定 max 为
// [MaxBucket]（10000，即百分比两位小数精度）。
//
// 同一用户在同一实验中有两个相互独立的子决策：是否进入实验（流量分配）
// 和进入哪个变体。两者通过不同的盐值（[SaltInclusion] / [SaltVariation]）
// 组合 key，避免结果完全相关：
//
//	inc := xbucket.Bucket(xbucket.Key("home-cta", "user-42", xbucket.SaltInclusion))
//	vb := xbucket.Bucket(xbucket.Key("home-cta", "user-42", xbucket.SaltVariation))
//
// # 区间分配
//
// [NewAllocator] 按声明顺序对权重做累计求和，生成连续闭区间：
//
//	A 50, B 50  →  A:[1,5000]  B:[5001,10000]
//	A 20, B 80  →  A:[1,2000]  B:[2001,10000]
//
// 区间宽度为 ceil(percent*100)，使用十进制运算避免浮点误差；
// 边界值归属先声明的区间；权重为 0 的条目区间为空，永远不会被选中。
// 权重之和按两位小数四舍五入后必须等于 100（允许 33.3333 x 3 这类写法），
// 舍入产生的尾部空隙归入最后一个非空区间。
//
// [NewInclusion] 是退化的两段分配：[1, traffic*100] 为进入实验，其余为排除。
package xbucket
