package content

import "psych-academy/internal/domain"

// BundledCourseID identifies the course shipped with the binary.
const BundledCourseID = "dynamic-psychology"

// Bundled returns the Arabic "Dynamic Psychology Academy" course.
func Bundled() domain.Course {
	return domain.Course{
		ID:        BundledCourseID,
		Title:     "أكاديمية علم النفس الدينامي",
		Lectures:  bundledLectures(),
		Questions: bundledQuestions(),
	}
}

func bundledLectures() []domain.Lecture {
	return []domain.Lecture{
		{
			ID:    1,
			Title: "مدخل إلى علم النفس الدينامي",
			Objectives: []string{
				"تعريف علم النفس الدينامي وموضوعه",
				"التمييز بين المنحى الدينامي والمنحى السلوكي",
				"فهم مفهوم الطاقة النفسية وتوزيعها",
			},
			Content: "يدرس علم النفس الدينامي القوى الداخلية المحركة للسلوك، ويرى أن السلوك الظاهر " +
				"نتاج صراع بين دوافع متعارضة يقع معظمها خارج نطاق الوعي. ويهتم هذا المنحى بتاريخ " +
				"الفرد وخبراته المبكرة وبالطريقة التي تتوزع بها الطاقة النفسية بين مكونات الشخصية.",
			Icon: "🧠",
			Glossary: []domain.GlossaryTerm{
				{Term: "الدافع", Definition: "حالة داخلية تستثير السلوك وتوجهه نحو هدف معين."},
				{Term: "اللاشعور", Definition: "مستوى من الحياة النفسية يضم الرغبات والذكريات المكبوتة."},
				{Term: "الطاقة النفسية", Definition: "القوة التي تشغل العمليات النفسية وفق التصور الفرويدي."},
			},
			Game: domain.LectureGame{
				Title:       "مطابقة المفاهيم الأساسية",
				Instruction: "اختر المصطلح ثم اضغط على الوصف المناسب له.",
				Pairs: []domain.GamePair{
					{ID: "drive", Term: "الدافع", Description: "حالة داخلية تستثير السلوك وتوجهه"},
					{ID: "unconscious", Term: "اللاشعور", Description: "مخزن الرغبات والذكريات المكبوتة"},
					{ID: "energy", Term: "الطاقة النفسية", Description: "القوة التي تحرك العمليات النفسية"},
					{ID: "conflict", Term: "الصراع", Description: "تعارض دافعين لا يمكن إشباعهما معاً"},
				},
				QuickQA: []domain.QuickQuestion{
					{
						ID:            "l1-q1",
						Question:      "ما الذي يركز عليه علم النفس الدينامي أساساً؟",
						Options:       []string{"القوى الداخلية المحركة للسلوك", "المثيرات البيئية فقط", "الوظائف الحسية", "القياس العقلي"},
						CorrectAnswer: 0,
						Explanation:   "ينظر المنحى الدينامي إلى السلوك بوصفه نتيجة لتفاعل قوى داخلية متصارعة.",
					},
					{
						ID:            "l1-q2",
						Question:      "أين تقع معظم الدوافع وفق المنحى الدينامي؟",
						Options:       []string{"في الوعي", "في اللاشعور", "في البيئة", "في الجهاز العصبي الطرفي"},
						CorrectAnswer: 1,
						Explanation:   "يرى فرويد أن الجزء الأكبر من الحياة النفسية لاشعوري كجبل الجليد.",
					},
					{
						ID:            "l1-q3",
						Question:      "ماذا ينتج عن تعارض دافعين لا يمكن إشباعهما معاً؟",
						Options:       []string{"التكيف التام", "الإحباط المؤقت فقط", "الصراع النفسي", "الإدراك"},
						CorrectAnswer: 2,
						Explanation:   "الصراع هو الحالة التي يتجاذب فيها الفرد دافعان متعارضان.",
					},
				},
			},
		},
		{
			ID:    2,
			Title: "بنية الشخصية: الهو والأنا والأنا الأعلى",
			Objectives: []string{
				"وصف مكونات الشخصية الثلاثة",
				"شرح مبدأ اللذة ومبدأ الواقع",
				"تحليل العلاقة الدينامية بين المكونات",
			},
			Content: "قسم فرويد الجهاز النفسي إلى ثلاثة مكونات: الهو مستودع الغرائز ويعمل وفق مبدأ " +
				"اللذة، والأنا الذي يتعامل مع الواقع ويوفق بين المطالب، والأنا الأعلى الذي يمثل " +
				"الضمير والقيم المستدخلة. ويتحدد توازن الشخصية بقدرة الأنا على إدارة هذه المطالب.",
			Icon: "🧩",
			Glossary: []domain.GlossaryTerm{
				{Term: "الهو", Definition: "المكون الغريزي الأول للشخصية ويعمل وفق مبدأ اللذة."},
				{Term: "الأنا", Definition: "المكون المنظم الذي يعمل وفق مبدأ الواقع."},
				{Term: "الأنا الأعلى", Definition: "الضمير الأخلاقي والمثل المستدخلة من الوالدين والمجتمع."},
			},
			Game: domain.LectureGame{
				Title:       "مكونات الجهاز النفسي",
				Instruction: "طابق كل مكون من مكونات الشخصية مع وظيفته.",
				Pairs: []domain.GamePair{
					{ID: "id", Term: "الهو", Description: "يطلب الإشباع الفوري للرغبات"},
					{ID: "ego", Term: "الأنا", Description: "يوفق بين الرغبات ومتطلبات الواقع"},
					{ID: "superego", Term: "الأنا الأعلى", Description: "يمثل الضمير والقيم الأخلاقية"},
					{ID: "pleasure", Term: "مبدأ اللذة", Description: "تجنب الألم وطلب المتعة دون تأجيل"},
				},
				QuickQA: []domain.QuickQuestion{
					{
						ID:            "l2-q1",
						Question:      "وفق أي مبدأ يعمل الأنا؟",
						Options:       []string{"مبدأ اللذة", "مبدأ الواقع", "مبدأ المثالية", "مبدأ التكرار"},
						CorrectAnswer: 1,
						Explanation:   "الأنا يؤجل الإشباع حتى تسمح الظروف الواقعية بذلك.",
					},
					{
						ID:            "l2-q2",
						Question:      "أي مكون يمثل الضمير؟",
						Options:       []string{"الهو", "الأنا", "الأنا الأعلى", "اللاشعور الجمعي"},
						CorrectAnswer: 2,
						Explanation:   "الأنا الأعلى يتكون من استدخال أوامر الوالدين ونواهيهم.",
					},
					{
						ID:            "l2-q3",
						Question:      "ما المكون الموجود منذ الولادة؟",
						Options:       []string{"الهو", "الأنا", "الأنا الأعلى", "الشخصية الاجتماعية"},
						CorrectAnswer: 0,
						Explanation:   "الهو هو المكون الأصلي الذي تنبثق منه بقية المكونات.",
					},
				},
			},
		},
		{
			ID:    3,
			Title: "آليات الدفاع النفسي",
			Objectives: []string{
				"تعريف آليات الدفاع ووظيفتها",
				"التعرف على أشهر الحيل الدفاعية",
				"التمييز بين الاستخدام التكيفي وغير التكيفي للدفاعات",
			},
			Content: "آليات الدفاع عمليات لاشعورية يلجأ إليها الأنا لخفض القلق الناتج عن الصراع بين " +
				"الهو والأنا الأعلى والواقع. ومن أشهرها الكبت والإسقاط والتبرير والإزاحة والتسامي. " +
				"وتكون الدفاعات تكيفية حين تستخدم بمرونة، وتصبح مرضية حين تتصلب وتشوه إدراك الواقع.",
			Icon: "🛡️",
			Glossary: []domain.GlossaryTerm{
				{Term: "الكبت", Definition: "إبعاد الأفكار والرغبات المؤلمة عن الوعي."},
				{Term: "الإسقاط", Definition: "نسبة الفرد عيوبه أو رغباته المرفوضة إلى الآخرين."},
				{Term: "التسامي", Definition: "تحويل الدوافع غير المقبولة إلى نشاطات مقبولة اجتماعياً."},
			},
			Game: domain.LectureGame{
				Title:       "تعرّف على الحيلة الدفاعية",
				Instruction: "طابق كل آلية دفاعية مع المثال الذي يوضحها.",
				Pairs: []domain.GamePair{
					{ID: "repression", Term: "الكبت", Description: "نسيان موقف مؤلم من الطفولة تماماً"},
					{ID: "projection", Term: "الإسقاط", Description: "اتهام الآخرين بالغيرة وهو الغيور"},
					{ID: "rationalization", Term: "التبرير", Description: "القول إن الامتحان كان ظالماً بعد الرسوب"},
					{ID: "sublimation", Term: "التسامي", Description: "توجيه العدوان نحو ممارسة الملاكمة"},
				},
				QuickQA: []domain.QuickQuestion{
					{
						ID:            "l3-q1",
						Question:      "ما الوظيفة الأساسية لآليات الدفاع؟",
						Options:       []string{"زيادة القلق", "خفض القلق وحماية الأنا", "تقوية الهو", "تحسين الذاكرة"},
						CorrectAnswer: 1,
						Explanation:   "يستخدم الأنا الدفاعات لحماية نفسه من القلق الذي يهدد توازنه.",
					},
					{
						ID:            "l3-q2",
						Question:      "تحويل الدافع العدواني إلى نشاط رياضي مثال على:",
						Options:       []string{"الإزاحة", "النكوص", "التسامي", "الإنكار"},
						CorrectAnswer: 2,
						Explanation:   "التسامي يوجه الطاقة نحو هدف مقبول اجتماعياً وذي قيمة.",
					},
					{
						ID:            "l3-q3",
						Question:      "متى تصبح آلية الدفاع مرضية؟",
						Options:       []string{"حين تتصلب وتشوه الواقع", "حين تستخدم بمرونة", "حين تكون شعورية", "لا تصبح مرضية أبداً"},
						CorrectAnswer: 0,
						Explanation:   "الإفراط والتصلب في الدفاعات يعوق التكيف مع الواقع.",
					},
				},
			},
		},
	}
}

func bundledQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            1,
			Text:          "يفسر علم النفس الدينامي السلوك من خلال:",
			Options:       []string{"القوى والدوافع الداخلية", "الاستجابات الشرطية", "العمليات المعرفية فقط", "الوراثة فقط"},
			CorrectAnswer: 0,
			Explanation:   "جوهر المنحى الدينامي هو تفسير السلوك بالقوى الداخلية المتفاعلة.",
		},
		{
			ID:            2,
			Text:          "شبه فرويد العقل بـ:",
			Options:       []string{"الحاسوب", "جبل الجليد", "المرآة", "الشجرة"},
			CorrectAnswer: 1,
			Explanation:   "الجزء الظاهر من جبل الجليد يمثل الوعي، والجزء المغمور يمثل اللاشعور.",
		},
		{
			ID:            3,
			Text:          "يعمل الهو وفق:",
			Options:       []string{"مبدأ الواقع", "مبدأ الأخلاق", "مبدأ اللذة", "مبدأ الاقتصاد"},
			CorrectAnswer: 2,
			Explanation:   "الهو يطلب الإشباع الفوري دون اعتبار للواقع.",
		},
		{
			ID:            4,
			Text:          "المكون الذي يوفق بين المطالب المتعارضة هو:",
			Options:       []string{"الهو", "الأنا", "الأنا الأعلى", "اللاشعور"},
			CorrectAnswer: 1,
			Explanation:   "الأنا هو المدير التنفيذي للشخصية.",
		},
		{
			ID:            5,
			Text:          "يتكون الأنا الأعلى من خلال:",
			Options:       []string{"استدخال القيم الوالدية", "النضج البيولوجي", "التعلم بالمحاولة والخطأ", "الوراثة"},
			CorrectAnswer: 0,
			Explanation:   "يستدخل الطفل أوامر الوالدين ونواهيهم فتصبح ضميراً داخلياً.",
		},
		{
			ID:            6,
			Text:          "إبعاد الذكريات المؤلمة عن الوعي يسمى:",
			Options:       []string{"الإسقاط", "التبرير", "الكبت", "التسامي"},
			CorrectAnswer: 2,
			Explanation:   "الكبت هو الآلية الدفاعية الأساسية عند فرويد.",
		},
		{
			ID:            7,
			Text:          "نسبة الفرد مشاعره المرفوضة إلى الآخرين تسمى:",
			Options:       []string{"الإسقاط", "الإزاحة", "النكوص", "التقمص"},
			CorrectAnswer: 0,
			Explanation:   "في الإسقاط يرى الفرد في الآخرين ما يرفضه في نفسه.",
		},
		{
			ID:            8,
			Text:          "تقديم أسباب مقبولة لسلوك دوافعه الحقيقية غير مقبولة يسمى:",
			Options:       []string{"الكبت", "التبرير", "الإنكار", "التعويض"},
			CorrectAnswer: 1,
			Explanation:   "التبرير يحفظ صورة الذات أمام النفس والآخرين.",
		},
		{
			ID:            9,
			Text:          "الوظيفة الرئيسة لآليات الدفاع هي:",
			Options:       []string{"حل الصراع نهائياً", "خفض القلق", "تقوية الأنا الأعلى", "إشباع الهو"},
			CorrectAnswer: 1,
			Explanation:   "الدفاعات تخفض القلق لكنها لا تحل الصراع من جذوره.",
		},
		{
			ID:            10,
			Text:          "توجيه الدوافع نحو أهداف مقبولة اجتماعياً يسمى:",
			Options:       []string{"الإزاحة", "النكوص", "الإنكار", "التسامي"},
			CorrectAnswer: 3,
			Explanation:   "التسامي أكثر الدفاعات نضجاً لأنه يحقق الإشباع بطريقة بناءة.",
		},
	}
}
