package insight

import "github.com/sells-group/trustlens/internal/model"

const analysisBasePrompt = `당신은 화장품 및 건강기능식품 리뷰 분석 전문가입니다.
소비자 리뷰들을 분석하여 제품의 구체적인 장점과 단점을 정리해주세요.

중요 요구사항:
1. 모든 리뷰 내용이 분석 결과에 반영되어야 합니다 (정보 손실 방지)
2. 각 장점/단점 문장 끝에 해당 내용을 언급한 리뷰 번호를 기록해주세요 (예: "보습력이 좋다 [리뷰 1, 4]")
3. 소비자들의 원문 표현을 최대한 보존해주세요
4. 요약하지 말고 구체적인 내용을 모두 포함해주세요

응답 형식: 반드시 아래 JSON 형태로만 응답하세요. 다른 텍스트는 절대 포함하지 마세요:
{
    "advantages": ["구체적인 장점 (소비자 표현 그대로) [관련 리뷰 번호]"],
    "disadvantages": ["구체적인 단점 (소비자 표현 그대로) [관련 리뷰 번호]"]
}`

const positiveInstruction = `
이 그룹은 5점 만점 리뷰들입니다. 주로 장점을 찾되, 아쉬운 점이나 개선점도 놓치지 마세요.`

const neutralInstruction = `
이 그룹은 4-3점 리뷰들입니다. 장점과 단점이 균형있게 언급될 가능성이 높습니다.`

const negativeInstruction = `
이 그룹은 2-1점 리뷰들입니다. 주로 단점을 찾되, 긍정적인 측면도 놓치지 마세요.`

// analysisPrompt returns the per-group system prompt.
func analysisPrompt(group model.SentimentGroup) string {
	switch group {
	case model.GroupPositive:
		return analysisBasePrompt + positiveInstruction
	case model.GroupNegative:
		return analysisBasePrompt + negativeInstruction
	default:
		return analysisBasePrompt + neutralInstruction
	}
}

const summaryPrompt = `당신은 화장품 및 건강기능식품 전문 정보 정리 전문가입니다.
제품의 여러 이미지에서 추출된 텍스트들을 분석하여 구체적이고 상세한 제품 정보로 통합해주세요.

다음 JSON 형태로 정리하되, 모든 구체적인 정보를 보존해주세요:

{
    "product_info": {
        "brand_name": "브랜드명",
        "product_name": "정확한 제품명",
        "volume_amount": "용량/수량 정보"
    },
    "ingredients": {
        "key_ingredients": ["주요 성분과 함량"],
        "full_ingredients": "전체 성분 목록"
    },
    "effects_features": ["제품의 효능과 특징"],
    "usage_instructions": "사용법",
    "cautions": ["주의사항"],
    "certifications": ["인증/시험 관련 정보"],
    "other_info": "기타 중요 정보"
}

정보가 없는 항목은 빈 값으로 두세요. 반드시 JSON만 출력하세요.`
