package doudizhu

import "fmt"

// ScoreInput 结算需要的全部信息
type ScoreInput struct {
	Mode                ScoringMode
	PerDefenderDoubling bool
	Winner              Seat
	Landlord            Seat
	CallScore           int
	BombCount           int
	RocketCount         int
	Spring              bool
	Doubled             [SeatCount]bool // 农民是否加倍
	Redoubled           bool            // 地主是否反加倍
}

// SeatScore 每个座位的倍数明细
// 地主的 Multiplier 为两个农民倍数之和（简单模式下为共用倍数的两倍），Exponent 为 0
type SeatScore struct {
	Seat       Seat `json:"seat"`
	Role       Role `json:"role"`
	Doubled    bool `json:"doubled"`
	Exponent   int  `json:"exponent"`
	Multiplier int  `json:"multiplier"`
	Score      int  `json:"score"`
}

// ScoreBreakdown 一局的结算结果，Scores 之和必须为 0
type ScoreBreakdown struct {
	Mode        ScoringMode          `json:"mode"`
	Winner      Seat                 `json:"winner"`
	WinnerRole  Role                 `json:"winnerRole"`
	Spring      bool                 `json:"spring"`
	CallScore   int                  `json:"callScore"`
	BombCount   int                  `json:"bombCount"`
	RocketCount int                  `json:"rocketCount"`
	Seats       [SeatCount]SeatScore `json:"seats"`
	Scores      [SeatCount]int       `json:"scores"`
}

// Settle 计算倍数和每个座位的输赢分
func Settle(in ScoreInput) ScoreBreakdown {
	out := ScoreBreakdown{
		Mode:        in.Mode,
		Winner:      in.Winner,
		Spring:      in.Spring,
		CallScore:   in.CallScore,
		BombCount:   in.BombCount,
		RocketCount: in.RocketCount,
	}

	sign := -1
	out.WinnerRole = RoleLandlord
	if in.Winner != in.Landlord {
		sign = 1
		out.WinnerRole = RoleFarmer
	}

	base := in.BombCount + in.RocketCount
	if in.Spring {
		base++
	}

	landlordScore, landlordMultiplier := 0, 0
	for seat := Seat(0); seat < SeatCount; seat++ {
		if seat == in.Landlord {
			continue
		}

		exponent := base
		if in.Mode == ScoringCompetition {
			if in.Doubled[seat] {
				exponent++
			}
			// 不按农民区分时，地主反加倍对两个农民都生效
			if in.Redoubled && (in.Doubled[seat] || !in.PerDefenderDoubling) {
				exponent++
			}
		}

		multiplier := 1 << exponent
		score := in.CallScore * sign * multiplier
		out.Seats[seat] = SeatScore{
			Seat:       seat,
			Role:       RoleFarmer,
			Doubled:    in.Doubled[seat],
			Exponent:   exponent,
			Multiplier: multiplier,
			Score:      score,
		}
		out.Scores[seat] = score
		landlordScore -= score
		landlordMultiplier += multiplier
	}

	out.Seats[in.Landlord] = SeatScore{
		Seat:       in.Landlord,
		Role:       RoleLandlord,
		Doubled:    in.Redoubled,
		Multiplier: landlordMultiplier,
		Score:      landlordScore,
	}
	out.Scores[in.Landlord] = landlordScore

	if sum := out.Scores[0] + out.Scores[1] + out.Scores[2]; sum != 0 {
		panic(fmt.Sprintf("doudizhu: settlement is not zero-sum: %v", out.Scores))
	}
	return out
}
