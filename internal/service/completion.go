package service

import (
	"legal_eval_backend/internal/model"
	"sort"
)

// Pair 同一问题下的两个回答，Gen1 的 id 总是较小
type Pair struct {
	Gen1 model.Generation
	Gen2 model.Generation
}

func (p Pair) Key() model.PairKey {
	return model.PairKey{Gen1ID: p.Gen1.ID, Gen2ID: p.Gen2.ID}
}

// DerivePairs 计算所有无序回答对，按 (gen_1_id, gen_2_id) 升序
// 少于两个回答时返回空切片
func DerivePairs(gens []model.Generation) []Pair {
	sorted := make([]model.Generation, 0, len(gens))
	seen := make(map[uint]bool, len(gens))
	for _, g := range gens {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	pairs := []Pair{}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pairs = append(pairs, Pair{Gen1: sorted[i], Gen2: sorted[j]})
		}
	}
	return pairs
}

// newer 判断 a 是否比 b 更新：timestamp 大者为新，相同则 rating_id 大者为新
func newer(a, b model.Rating) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

// LatestRatings 每个回答对只保留最新一条评分，结果与输入顺序无关
// 没有评分的回答对不会出现在结果中
func LatestRatings(ratings []model.Rating) map[model.PairKey]model.Rating {
	latest := make(map[model.PairKey]model.Rating, len(ratings))
	for _, r := range ratings {
		key := r.PairKey()
		if cur, ok := latest[key]; !ok || newer(r, cur) {
			latest[key] = r
		}
	}
	return latest
}

// SortedRatings 按回答对顺序展开 LatestRatings 的结果
func SortedRatings(latest map[model.PairKey]model.Rating) []model.Rating {
	out := make([]model.Rating, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GenID1 != out[j].GenID1 {
			return out[i].GenID1 < out[j].GenID1
		}
		return out[i].GenID2 < out[j].GenID2
	})
	return out
}

type Completion struct {
	IsAnswered      bool `json:"is_answered"`
	WriteinEligible bool `json:"writein_eligible"`
	RatedPairs      int  `json:"rated_pairs"`
	TotalPairs      int  `json:"total_pairs"`
}

// DeriveCompletion 判断用户是否已完成某个问题
//
//  1. 没有回答对 -> 未完成
//  2. 任一回答对没有评分 -> 未完成
//  3. 所有回答对都是 both_unusable -> 有补写答案才算完成，且此时允许补写
//  4. 否则 (至少一对可用) -> 完成
//
// 不属于当前回答对集合的评分会被忽略
func DeriveCompletion(pairs []Pair, latest map[model.PairKey]model.Rating, hasWritein bool) Completion {
	c := Completion{TotalPairs: len(pairs)}
	allUnusable := true
	for _, p := range pairs {
		r, ok := latest[p.Key()]
		if !ok {
			continue
		}
		c.RatedPairs++
		if r.UserSelection != model.BothUnusable {
			allUnusable = false
		}
	}

	if c.TotalPairs == 0 || c.RatedPairs < c.TotalPairs {
		return c
	}

	if allUnusable {
		c.WriteinEligible = true
		c.IsAnswered = hasWritein
		return c
	}

	c.IsAnswered = true
	return c
}
