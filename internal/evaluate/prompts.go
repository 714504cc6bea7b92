package evaluate

const contradictionPrompt = `당신은 제품 광고 신뢰성 평가 전문가입니다.
제품의 상세정보(광고/마케팅 내용)와 실제 소비자 리뷰를 비교분석하여 모순점을 찾아주세요.

분석 목표: 과대광고 탐지
- 상세정보에서 주장한 효과/기능이 실제 리뷰에서 부정적으로 언급되는 경우
- 제품이 약속한 것과 소비자 경험 간의 격차

모순 탐지 기준:
1. 효능/효과 모순: 상세정보 효과 주장 vs 리뷰 "효과 없음"
2. 사용감 모순: 상세정보 사용감 주장 vs 리뷰 불만족
3. 품질 모순: 상세정보 품질 주장 vs 리뷰 품질 문제
4. 기능 모순: 상세정보 기능 주장 vs 리뷰 기능 불만

심각도 기준:
- high: 명확하고 직접적인 모순 (효과 주장 vs 효과 없음)
- medium: 간접적이지만 의미있는 모순
- low: 일부 불만이지만 심각하지 않은 모순

다음 JSON 형태로만 분석 결과를 출력하세요:
{
    "contradictions": [
        {
            "claim": "상세정보에서 주장한 내용",
            "reality": "리뷰에서 언급된 실제 경험",
            "severity": "high/medium/low"
        }
    ]
}

중요: 명확한 모순만 보고하세요. 단순한 개인차이나 애매한 경우는 제외하세요.`

const claimsSystemPrompt = `당신은 제품 분석 전문가입니다. 마케팅 주장과 실제 리뷰를 객관적으로 비교 분석합니다.`

const claimsUserPromptFormat = `제품의 마케팅 주장과 실제 소비자 리뷰를 비교하여 차이점을 분석해주세요.

제품의 마케팅 주장 (상세정보):
%s

실제 소비자 리뷰 분석 결과:
%s

다음 기준으로 분석해주세요:
1. 마케팅에서 강조한 효과와 실제 소비자 경험의 차이
2. 예상과 다른 부작용이나 문제점
3. 사용법이나 기대 효과의 현실성
4. 전반적인 신뢰도 평가

반드시 JSON 형태로만 응답하세요:
{
    "contradictions": [
        "마케팅 주장과 실제 소비자 경험의 구체적인 차이점"
    ],
    "consistency_points": [
        "마케팅 주장과 일치하는 점들"
    ],
    "overall_assessment": "전반적인 평가 (2-3문장)",
    "trust_level": "높음/보통/낮음"
}`
